package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/nepscript/nep/nep"
	"github.com/spf13/cobra"
)

var keywordDocs = map[string]string{
	"rakh":          "declares a variable",
	"nikaal":        "prints a value",
	"yedi":          "starts a conditional",
	"navaye":        "adds an else-if branch",
	"haina bhane":   "adds the final else branch",
	"jaba samma":    "loops while the condition holds",
	"jaari rakh":    "skips to the next loop iteration",
	"bhayo":         "leaves the innermost loop",
	"kaam":          "declares a function",
	"kaam ra firta": "declares a function that returns a value",
	"firta":         "returns from the current function",
	"sahi":          "Boolean true",
	"galat":         "Boolean false",
	"null":          "the null value",
}

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspTextDocumentIdentifier struct {
	URI string `json:"uri"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument   lspTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspDocumentParams struct {
	TextDocument lspTextDocumentIdentifier `json:"textDocument"`
}

type lspTextDocumentPositionParams struct {
	TextDocument lspTextDocumentIdentifier `json:"textDocument"`
	Position     struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	conn   *lspConn
	engine *nep.Engine
	docs   map[string]string
}

type lspHandler func(s *lspServer, msg lspInboundMessage) []lspOutboundMessage

var lspHandlers = map[string]lspHandler{
	"initialize":              (*lspServer).initialize,
	"initialized":             nil,
	"exit":                    nil,
	"shutdown":                (*lspServer).shutdown,
	"textDocument/didOpen":    (*lspServer).didOpen,
	"textDocument/didChange":  (*lspServer).didChange,
	"textDocument/didClose":   (*lspServer).didClose,
	"textDocument/completion": (*lspServer).completion,
	"textDocument/hover":      (*lspServer).hover,
	"textDocument/formatting": (*lspServer).formatting,
}

func newLSPCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Serve the language server protocol over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := &lspServer{
				conn:   newLSPConn(cmd.InOrStdin(), cmd.OutOrStdout()),
				engine: state.newEngine(),
				docs:   make(map[string]string),
			}
			return server.serve()
		},
	}
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.conn.read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}
		for _, msg := range s.handleMessage(incoming) {
			if err := s.conn.write(msg); err != nil {
				return err
			}
		}
		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	handler, known := lspHandlers[incoming.Method]
	switch {
	case !known:
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{{
			JSONRPC: "2.0",
			ID:      incoming.ID,
			Error:   &lspResponseError{Code: -32601, Message: "method not found"},
		}}
	case handler == nil:
		return nil
	default:
		return handler(s, incoming)
	}
}

// reply answers a request; notifications (no id) get no answer.
func reply(msg lspInboundMessage, result any) []lspOutboundMessage {
	if msg.ID == nil {
		return nil
	}
	return []lspOutboundMessage{{JSONRPC: "2.0", ID: msg.ID, Result: result}}
}

func (s *lspServer) initialize(msg lspInboundMessage) []lspOutboundMessage {
	return reply(msg, map[string]any{
		"capabilities": map[string]any{
			"textDocumentSync":           1,
			"hoverProvider":              true,
			"documentFormattingProvider": true,
			"completionProvider":         map[string]any{"resolveProvider": false},
		},
		"serverInfo": map[string]any{"name": "nep-lsp", "version": version},
	})
}

func (s *lspServer) shutdown(msg lspInboundMessage) []lspOutboundMessage {
	return reply(msg, nil)
}

func (s *lspServer) didOpen(msg lspInboundMessage) []lspOutboundMessage {
	var params lspDidOpenParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return nil
	}
	return s.store(params.TextDocument.URI, params.TextDocument.Text)
}

func (s *lspServer) didChange(msg lspInboundMessage) []lspOutboundMessage {
	var params lspDidChangeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil || len(params.ContentChanges) == 0 {
		return nil
	}
	return s.store(params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text)
}

func (s *lspServer) store(uri, text string) []lspOutboundMessage {
	s.docs[uri] = text
	return []lspOutboundMessage{{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(s.engine, text),
		},
	}}
}

func (s *lspServer) didClose(msg lspInboundMessage) []lspOutboundMessage {
	var params lspDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err == nil {
		delete(s.docs, params.TextDocument.URI)
	}
	return nil
}

func (s *lspServer) completion(msg lspInboundMessage) []lspOutboundMessage {
	return reply(msg, map[string]any{
		"isIncomplete": false,
		"items":        completionItems(),
	})
}

func (s *lspServer) hover(msg lspInboundMessage) []lspOutboundMessage {
	if msg.ID == nil {
		return nil
	}
	var params lspTextDocumentPositionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return []lspOutboundMessage{invalidParams(msg.ID, "invalid hover params")}
	}
	word := wordAtPosition(s.docs[params.TextDocument.URI], params.Position.Line, params.Position.Character)
	if word == "" {
		return reply(msg, nil)
	}
	return reply(msg, map[string]any{
		"contents": map[string]any{"kind": "markdown", "value": hoverText(word)},
	})
}

func (s *lspServer) formatting(msg lspInboundMessage) []lspOutboundMessage {
	if msg.ID == nil {
		return nil
	}
	var params lspDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return []lspOutboundMessage{invalidParams(msg.ID, "invalid formatting params")}
	}
	return reply(msg, formattingEdits(s.docs[params.TextDocument.URI]))
}

func invalidParams(id *json.RawMessage, message string) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &lspResponseError{Code: -32602, Message: message},
	}
}

func diagnosticsForSource(engine *nep.Engine, source string) []map[string]any {
	_, err := engine.Compile(source)
	if err == nil {
		return []map[string]any{}
	}

	var (
		lexErr    *nep.LexError
		syntaxErr *nep.SyntaxError
		parseErrs *nep.ParseErrors
	)
	switch {
	case errors.As(err, &lexErr):
		msg := fmt.Sprintf("unexpected character %q", lexErr.Char)
		if lexErr.Kind == nep.LexUnterminatedString {
			msg = "unterminated string literal"
		}
		return []map[string]any{diagnosticAt(lexErr.Pos, msg)}
	case errors.As(err, &syntaxErr):
		return []map[string]any{diagnosticAt(syntaxErr.Pos, syntaxErr.Msg)}
	case errors.As(err, &parseErrs):
		out := make([]map[string]any, 0, len(parseErrs.Diagnostics))
		for _, diag := range parseErrs.Diagnostics {
			out = append(out, diagnosticAt(diag.Pos, diag.Msg))
		}
		return out
	default:
		return []map[string]any{newDiagnostic(0, 0, err.Error())}
	}
}

func diagnosticAt(pos nep.Position, message string) map[string]any {
	return newDiagnostic(max(0, pos.Line-1), max(0, pos.Column-1), message)
}

func newDiagnostic(line, character int, message string) map[string]any {
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + 1,
			},
		},
		"severity": 1,
		"source":   "nep-lsp",
		"message":  message,
	}
}

// formattingEdits replaces the whole document with its canonical layout.
// Documents that do not parse are left alone.
func formattingEdits(source string) []map[string]any {
	program, err := nep.Parse(source)
	if err != nil {
		return []map[string]any{}
	}
	formatted := nep.Format(program)
	if formatted == source {
		return []map[string]any{}
	}

	lastLine := strings.Count(source, "\n")
	lastColumn := utf8.RuneCountInString(source[strings.LastIndex(source, "\n")+1:])
	return []map[string]any{
		{
			"range": map[string]any{
				"start": map[string]any{"line": 0, "character": 0},
				"end":   map[string]any{"line": lastLine, "character": lastColumn},
			},
			"newText": formatted,
		},
	}
}

func completionItems() []map[string]any {
	labels := nep.Keywords()
	sort.Strings(labels)

	items := make([]map[string]any, 0, len(labels))
	for _, label := range labels {
		items = append(items, map[string]any{
			"label":         label,
			"kind":          14, // Keyword
			"detail":        "keyword",
			"documentation": keywordDocs[label],
		})
	}
	return items
}

// keywordFor maps a single word to the keyword it spells or belongs to, so
// hovering either half of "jaba samma" describes the loop.
func keywordFor(word string) (string, bool) {
	if _, ok := keywordDocs[word]; ok {
		return word, true
	}
	for _, keyword := range nep.Keywords() {
		for _, part := range strings.Fields(keyword) {
			if part == word {
				return keyword, true
			}
		}
	}
	return "", false
}

func hoverText(word string) string {
	if keyword, ok := keywordFor(word); ok {
		return fmt.Sprintf("`%s`\n\nnep keyword: %s", keyword, keywordDocs[keyword])
	}
	return fmt.Sprintf("`%s`\n\nnep symbol", word)
}

func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(lines[line])
	if len(runes) == 0 {
		return ""
	}
	cursor := runeIndexForUTF16(runes, max(character, 0))
	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

// runeIndexForUTF16 converts an LSP character offset, counted in UTF-16
// code units, to an index into runes.
func runeIndexForUTF16(runes []rune, character int) int {
	units := 0
	for i, r := range runes {
		if units >= character {
			return i
		}
		units += utf16.RuneLen(r)
	}
	return len(runes)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// lspConn frames JSON-RPC messages with Content-Length headers.
type lspConn struct {
	r *bufio.Reader
	w *bufio.Writer
}

func newLSPConn(r io.Reader, w io.Writer) *lspConn {
	return &lspConn{r: bufio.NewReader(r), w: bufio.NewWriter(w)}
}

func (c *lspConn) read() ([]byte, error) {
	length := -1
	for {
		line, err := c.r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		if length, err = strconv.Atoi(strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("invalid Content-Length: %w", err)
		}
	}
	if length < 0 {
		return nil, errors.New("missing Content-Length header")
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(c.r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *lspConn) write(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.w, "Content-Length: %d\r\n\r\n", len(data))
	c.w.Write(data)
	return c.w.Flush()
}
