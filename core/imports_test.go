package core

import (
	"go/build"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Packages below only need the pure core types and must build without the
// glfw/GL C toolchain.
func TestPurePackagesAvoidHost(t *testing.T) {
	for _, dir := range []string{".", "../math", "../scene", "../seeded", "../viewport", "../panel", "../controls", "../content", "../config", "../console"} {
		pkg, err := build.ImportDir(dir, 0)
		require.NoError(t, err, dir)
		imports := append(append([]string{}, pkg.Imports...), pkg.TestImports...)
		for _, imp := range imports {
			assert.False(t, strings.HasPrefix(imp, "github.com/go-gl/"), "%s imports %s", dir, imp)
			assert.NotEqual(t, "material-scene/internal/host", imp, dir)
			assert.NotEqual(t, "material-scene/internal/opengl", imp, dir)
			assert.NotEqual(t, "material-scene/renderer", imp, dir)
		}
	}
}
