// Package nep implements an interpreter for a small scripting language with
// Nepali keywords. Source text is tokenized, parsed into an AST while the
// parser checks declarations and operand types, and then evaluated directly
// by walking the tree. The language supports:
//   - Declarations with `rakh`, assignment and the `++` increment.
//   - Number, string and boolean literals plus `null`.
//   - Arithmetic and comparison operators with conventional precedence.
//   - `yedi`/`navaye`/`haina bhane` conditionals and `jaba samma` loops with
//     `bhayo` (break) and `jaari rakh` (continue).
//   - Functions declared with `kaam` or, when they return a value with
//     `firta`, with `kaam ra firta`. Functions close over their defining scope.
//   - A single output primitive, `nikaal`.
//
// Printed values are collected in an output log rather than written to a
// stream. The engine enforces a step quota and a recursion limit.
package nep
