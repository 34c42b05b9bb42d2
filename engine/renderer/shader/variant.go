package shader

import (
	"slices"
	"strings"
)

// NormalizeDefines trims every define, drops blanks, sorts the rest and removes duplicates.
// Two define lists select the same shader variant exactly when their normalized forms are equal.
//
// Parameters:
//   - defines: define names, optionally with =VALUE suffixes
//
// Returns:
//   - []string: a new sorted, de-duplicated slice
func NormalizeDefines(defines []string) []string {
	out := make([]string, 0, len(defines))
	for _, d := range defines {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// VariantKey identifies one compiled variant of a shader file. The path alone is the key of the
// variant without defines.
//
// Parameters:
//   - path: the shader source path
//   - defines: the variant's defines in any order
//
// Returns:
//   - string: the cache key, e.g. "shaders/lensing.wgsl[METRIC_KERR,SOLVER_RK4]"
func VariantKey(path string, defines []string) string {
	normalized := NormalizeDefines(defines)
	if len(normalized) == 0 {
		return path
	}
	return path + "[" + strings.Join(normalized, ",") + "]"
}
