package analyzer

import "testmind/internal/model"

// defaultAllowlist maps a call-site name to the side-effect kind it
// implies. Callers that need project-specific entries pass their own
// allowlist to InferSideEffects; this is the structural default:
// fetch/axios-style network clients, fs-style filesystem calls,
// http-style network calls, database clients, and stdout writers.
var defaultAllowlist = map[string]model.SideEffectKind{
	"fetch":            model.SideEffectNetwork,
	"axios.Get":        model.SideEffectNetwork,
	"axios.Post":       model.SideEffectNetwork,
	"http.Get":         model.SideEffectNetwork,
	"http.Post":        model.SideEffectNetwork,
	"http.Client.Do":   model.SideEffectNetwork,
	"os.Open":          model.SideEffectFilesystem,
	"os.Create":        model.SideEffectFilesystem,
	"os.ReadFile":      model.SideEffectFilesystem,
	"os.WriteFile":     model.SideEffectFilesystem,
	"ioutil.ReadFile":  model.SideEffectFilesystem,
	"fs.ReadFile":      model.SideEffectFilesystem,
	"sql.Open":         model.SideEffectDatabase,
	"db.Query":         model.SideEffectDatabase,
	"db.Exec":          model.SideEffectDatabase,
	"sql.DB.Query":     model.SideEffectDatabase,
	"sql.DB.Exec":      model.SideEffectDatabase,
	"fmt.Println":     model.SideEffectIO,
	"fmt.Printf":      model.SideEffectIO,
	"fmt.Print":       model.SideEffectIO,
	"log.Println":     model.SideEffectIO,
	"log.Printf":      model.SideEffectIO,
}

// InferSideEffects derives the side-effect set for a function from its
// call names, producing at most one record per unique (type, target)
// pair.
func InferSideEffects(fn FunctionInfo, allowlist map[string]model.SideEffectKind) []model.SideEffect {
	if allowlist == nil {
		allowlist = defaultAllowlist
	}
	seen := map[string]bool{}
	var effects []model.SideEffect
	for _, call := range fn.CallNames {
		kind, ok := allowlist[call]
		if !ok {
			continue
		}
		key := string(kind) + "|" + call
		if seen[key] {
			continue
		}
		seen[key] = true
		effects = append(effects, model.SideEffect{
			Type:        kind,
			Description: "calls " + call,
			Location:    fn.Signature.Name,
		})
	}
	// A function that spawns a goroutine mutates process state
	// (scheduling) and is recorded as a state effect exactly once.
	if fn.Signature.IsAsync {
		key := string(model.SideEffectState) + "|goroutine"
		if !seen[key] {
			effects = append(effects, model.SideEffect{
				Type:        model.SideEffectState,
				Description: "spawns a goroutine",
				Location:    fn.Signature.Name,
			})
		}
	}
	return effects
}

// InferDependencies classifies each distinct call name as internal
// (declared in the same analyzed file set), builtin (Go predeclared
// identifiers), or external (every other call name, whether
// package-qualified like http.Get or not).
func InferDependencies(fn FunctionInfo, localNames map[string]bool) []model.Dependency {
	seen := map[string]bool{}
	var deps []model.Dependency
	for _, call := range fn.CallNames {
		if call == "" || seen[call] {
			continue
		}
		seen[call] = true
		kind := model.DependencyInternal
		switch {
		case builtinNames[call]:
			kind = model.DependencyBuiltin
		case localNames[call]:
			kind = model.DependencyInternal
		default:
			kind = model.DependencyExternal
		}
		deps = append(deps, model.Dependency{Name: call, Type: kind, UsedIn: fn.Signature.Name})
	}
	return deps
}

var builtinNames = map[string]bool{
	"len": true, "cap": true, "append": true, "make": true, "new": true,
	"panic": true, "recover": true, "copy": true, "delete": true,
	"close": true, "print": true, "println": true,
}
