package backend

import "github.com/iancoleman/strcase"

// builtins are resolved by the runtime under their literal spelling; they
// must not be mangled or the linker will never find them.
var builtins = map[string]bool{
	"print":     true,
	"print_int": true,
	"input_int": true,
}

// mangle turns a user-defined call target into an assembly-safe symbol.
// Built-in runtime calls pass through unchanged.
func mangle(name string) string {
	if builtins[name] {
		return name
	}
	return "tinyc_" + strcase.ToSnake(name)
}
