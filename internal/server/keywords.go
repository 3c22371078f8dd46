package server

// keywordDocs is the closed keyword hover table from the Glossary: a
// fixed set of reserved words this server recognizes at hover time
// without needing any symbol extraction at all.
var keywordDocs = map[string]string{
	"fn":      "**fn** — declares a function.",
	"inline":  "**inline** modifier — requests the function be inlined at call sites.",
	"export":  "**export** modifier — makes a function callable from outside its compilation unit.",
	"return":  "**return** — returns from the enclosing function, optionally with values.",
	"if":      "**if** — conditional statement.",
	"else":    "**else** — alternate branch of an `if` statement.",
	"while":   "**while** — condition-checked loop.",
	"for":     "**for** — counted loop.",
	"require": "**require** — includes another source file's declarations.",
	"from":    "**from** — names the namespace a `require` directive resolves against.",
	"param":   "**param** — declares a compile-time integer constant.",
	"global":  "**global** — declares a module-level mutable value.",
	"reg":     "**reg** storage class — a register-resident variable.",
	"stack":   "**stack** storage class — a stack-resident variable.",
	"const":   "**const** modifier — marks a declaration as immutable.",
	"int":     "**int** — arbitrary-precision compile-time integer type, used for `param` values.",
	"u8":      "**u8** — 8-bit unsigned integer type.",
	"u16":     "**u16** — 16-bit unsigned integer type.",
	"u32":     "**u32** — 32-bit unsigned integer type.",
	"u64":     "**u64** — 64-bit unsigned integer type.",
	"u128":    "**u128** — 128-bit unsigned integer type.",
	"u256":    "**u256** — 256-bit unsigned integer type.",
}
