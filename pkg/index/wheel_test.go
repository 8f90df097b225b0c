package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseWheelFilename(t *testing.T) {
	wheel, err := ParseWheelFilename("sageattention-2.2.0+cu128torch2.9.0-cp313-cp313-win_amd64.whl")
	require.NoError(t, err)
	require.Equal(t, "sageattention", wheel.Name)
	require.Equal(t, "2.2.0+cu128torch2.9.0", wheel.Version)
	require.Equal(t, "cp313", wheel.PythonTag)
	require.Equal(t, "cp313", wheel.ABITag)
	require.Equal(t, "win_amd64", wheel.PlatformTag)
}

func TestParseWheelFilenameWithBuildTag(t *testing.T) {
	wheel, err := ParseWheelFilename("ninja-1.11.1-1-py3-none-any.whl")
	require.NoError(t, err)
	require.Equal(t, "ninja", wheel.Name)
	require.Equal(t, "1.11.1", wheel.Version)
	require.Equal(t, "py3", wheel.PythonTag)
}

func TestParseWheelFilenameErrors(t *testing.T) {
	_, err := ParseWheelFilename("not-a-wheel.tar.gz")
	require.Error(t, err)
	_, err = ParseWheelFilename("too-few-fields.whl")
	require.Error(t, err)
}

func TestNormalizeProjectName(t *testing.T) {
	require.Equal(t, "sageattention", NormalizeProjectName("SageAttention"))
	require.Equal(t, "sage-attention", NormalizeProjectName("Sage_Attention"))
	require.Equal(t, "a-b-c", NormalizeProjectName("a-_.b..c"))
}
