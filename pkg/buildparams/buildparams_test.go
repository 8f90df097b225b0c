package buildparams

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func request() Request {
	return Request{
		GitTag:         "v2.2.0",
		TorchMinor:     "9",
		TorchPatch:     "0",
		TorchIsNightly: "0",
		CUDAMinor:      "8",
		CUDAPatch:      "0",
	}
}

func TestResolveArchList(t *testing.T) {
	for _, tt := range []struct {
		cudaMinor string
		want      []string
	}{
		{"0", []string{"8.0", "8.6", "8.9", "9.0"}},
		{"6", []string{"8.0", "8.6", "8.9", "9.0"}},
		{"7", []string{"8.0", "8.6", "8.9", "9.0", "12.0"}},
		{"8", []string{"8.0", "8.6", "8.9", "9.0", "12.0"}},
		{"10", []string{"8.0", "8.6", "8.9", "9.0", "12.0"}},
	} {
		req := request()
		req.CUDAMinor = tt.cudaMinor
		resolved, err := Resolve(req, CompareNumeric)
		require.NoError(t, err)
		require.Equal(t, tt.want, resolved.CUDAArchList, "cuda_minor=%s", tt.cudaMinor)
	}
}

func TestResolveABITags(t *testing.T) {
	withoutCP313 := []string{"cp39-win_amd64", "cp310-win_amd64", "cp311-win_amd64", "cp312-win_amd64"}
	withCP313 := append(append([]string{}, withoutCP313...), "cp313-win_amd64")

	for _, tt := range []struct {
		torchMinor string
		want       []string
	}{
		{"4", withoutCP313},
		{"5", withoutCP313},
		{"6", withCP313},
		{"9", withCP313},
		{"10", withCP313},
	} {
		req := request()
		req.TorchMinor = tt.torchMinor
		resolved, err := Resolve(req, CompareNumeric)
		require.NoError(t, err)
		require.Equal(t, tt.want, resolved.PythonABITags, "torch_minor=%s", tt.torchMinor)
	}
}

func TestResolveWheelVersionSuffix(t *testing.T) {
	resolved, err := Resolve(request(), CompareNumeric)
	require.NoError(t, err)
	require.Equal(t, "+cu128torch2.9.0", resolved.WheelVersionSuffix)
}

// The historical shell conditionals compared minors as strings, so a
// two-digit minor sorted below a one-digit gate. Lexicographic mode keeps
// that behavior; numeric mode fixes it.
func TestResolveCompareModes(t *testing.T) {
	req := request()
	req.CUDAMinor = "10"

	numeric, err := Resolve(req, CompareNumeric)
	require.NoError(t, err)
	require.Contains(t, numeric.CUDAArchList, "12.0")

	legacy, err := Resolve(req, CompareLexicographic)
	require.NoError(t, err)
	require.NotContains(t, legacy.CUDAArchList, "12.0")

	// single-digit minors agree across modes
	req.CUDAMinor = "8"
	numeric, err = Resolve(req, CompareNumeric)
	require.NoError(t, err)
	legacy, err = Resolve(req, CompareLexicographic)
	require.NoError(t, err)
	require.Equal(t, numeric.CUDAArchList, legacy.CUDAArchList)
	require.Equal(t, numeric.PythonABITags, legacy.PythonABITags)
}

func TestResolveInvalidInput(t *testing.T) {
	for _, mutate := range []func(*Request){
		func(r *Request) { r.GitTag = "" },
		func(r *Request) { r.TorchMinor = "nine" },
		func(r *Request) { r.TorchPatch = "" },
		func(r *Request) { r.CUDAMinor = "8.0" },
		func(r *Request) { r.CUDAPatch = "-1" },
		func(r *Request) { r.TorchIsNightly = "yes" },
	} {
		req := request()
		mutate(&req)
		_, err := Resolve(req, CompareNumeric)
		require.Error(t, err)
	}
}

func TestBuilderEnv(t *testing.T) {
	req := request()
	req.TorchIsNightly = "1"
	resolved, err := Resolve(req, CompareNumeric)
	require.NoError(t, err)

	env := resolved.BuilderEnv(1)
	require.Equal(t, "cp39-win_amd64 cp310-win_amd64 cp311-win_amd64 cp312-win_amd64 cp313-win_amd64", env["CIBW_BUILD"])
	require.Equal(t, "1", env["CIBW_BUILD_VERBOSITY"])
	require.Equal(t, "latest", env["CIBW_DEPENDENCY_VERSIONS"])
	require.Equal(t, "8.0 8.6 8.9 9.0 12.0", env["SAGEATTENTION_CUDA_ARCH_LIST"])
	require.Equal(t, "+cu128torch2.9.0", env["SAGEATTENTION_WHEEL_VERSION_SUFFIX"])
	require.Equal(t, "1", env["SAGE_NIGHTLY"])
}

// The builder env must use the exact keys setup.py reads, with the arch list
// joined on spaces so its split() produces the individual gencode targets.
func TestBuilderEnvMatchesSetupPyContract(t *testing.T) {
	resolved, err := Resolve(request(), CompareNumeric)
	require.NoError(t, err)

	env := resolved.BuilderEnv(0)
	for _, key := range []string{"SAGEATTENTION_CUDA_ARCH_LIST", "SAGEATTENTION_WHEEL_VERSION_SUFFIX"} {
		require.Contains(t, env, key)
	}
	require.NotContains(t, env["SAGEATTENTION_CUDA_ARCH_LIST"], ";")
	require.Equal(t, resolved.CUDAArchList, strings.Fields(env["SAGEATTENTION_CUDA_ARCH_LIST"]))
}
