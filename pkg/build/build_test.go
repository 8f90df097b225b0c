package build

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wheelforge/wheelforge/pkg/config"
	"github.com/wheelforge/wheelforge/pkg/settings"
)

func testConfig(t *testing.T, port int) *config.Config {
	t.Helper()
	cfg, err := config.FromYAML([]byte(`
project:
  repo: https://github.com/example/attention-kernels
  tag: v2.2.0
torch:
  minor: "9"
  patch: "0"
cuda:
  minor: "8"
  patch: "0"
`))
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateAndComplete())
	cfg.Build.IndexPort = port
	return cfg
}

func testSettings() *settings.Settings {
	return &settings.Settings{UpstreamIndexURL: "https://pypi.org/simple"}
}

func checkoutWithManifest(t *testing.T) func(ctx context.Context, repo, tag, dir string) error {
	t.Helper()
	return func(ctx context.Context, repo, tag, dir string) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("torch==2.4.0\nninja==1.11.1\n"), 0o644)
	}
}

func TestRun(t *testing.T) {
	rootDir := t.TempDir()
	cfg := testConfig(t, 18731)

	var manifestDuringBuild string
	mock := &MockCommand{
		CheckoutFn: checkoutWithManifest(t),
		BuildWheelsFn: func(ctx context.Context, dir, outputDir string, env map[string]string) error {
			contents, err := os.ReadFile(filepath.Join(dir, "requirements.txt"))
			if err != nil {
				return err
			}
			manifestDuringBuild = string(contents)

			// the index must be answering while the builder runs
			resp, err := http.Get(env["PIP_EXTRA_INDEX_URL"])
			if err != nil {
				return err
			}
			resp.Body.Close()

			name := "sageattention-2.2.0" + env["SAGEATTENTION_WHEEL_VERSION_SUFFIX"] + "-cp312-cp312-win_amd64.whl"
			return os.WriteFile(filepath.Join(outputDir, name), []byte("wheel"), 0o644)
		},
	}

	artifacts, err := Run(context.Background(), Options{
		Config:   cfg,
		Settings: testSettings(),
		RootDir:  rootDir,
		Command:  mock,
	})
	require.NoError(t, err)

	require.Len(t, artifacts, 1)
	require.Contains(t, filepath.Base(artifacts[0]), "+cu128torch2.9.0")

	require.Equal(t, []string{"https://github.com/example/attention-kernels@v2.2.0"}, mock.CheckoutCalls)
	require.Len(t, mock.BuildWheelsCalls, 1)
	env := mock.BuildWheelsCalls[0]
	require.Contains(t, env["CIBW_BUILD"], "cp313-win_amd64")
	require.Equal(t, "8.0 8.6 8.9 9.0 12.0", env["SAGEATTENTION_CUDA_ARCH_LIST"])
	require.Equal(t, "http://127.0.0.1:18731/simple/", env["PIP_EXTRA_INDEX_URL"])

	require.Contains(t, manifestDuringBuild, "torch==2.9.0")
	require.Contains(t, manifestDuringBuild, "--extra-index-url http://127.0.0.1:18731/simple/")
}

func TestRunCheckoutFailureAborts(t *testing.T) {
	mock := &MockCommand{
		CheckoutFn: func(ctx context.Context, repo, tag, dir string) error {
			return errors.New("remote hung up")
		},
	}

	_, err := Run(context.Background(), Options{
		Config:   testConfig(t, 18732),
		Settings: testSettings(),
		RootDir:  t.TempDir(),
		Command:  mock,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "check out")
	require.Empty(t, mock.BuildWheelsCalls)
}

func TestRunBuilderFailureAborts(t *testing.T) {
	mock := &MockCommand{
		CheckoutFn: checkoutWithManifest(t),
		BuildWheelsFn: func(ctx context.Context, dir, outputDir string, env map[string]string) error {
			return errors.New("nvcc exited 1")
		},
	}

	_, err := Run(context.Background(), Options{
		Config:   testConfig(t, 18733),
		Settings: testSettings(),
		RootDir:  t.TempDir(),
		Command:  mock,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Wheel build failed")
}

func TestRunNoArtifacts(t *testing.T) {
	mock := &MockCommand{CheckoutFn: checkoutWithManifest(t)}

	_, err := Run(context.Background(), Options{
		Config:   testConfig(t, 18734),
		Settings: testSettings(),
		RootDir:  t.TempDir(),
		Command:  mock,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "No wheels tagged")
}

func TestCollectArtifactsFiltersBySuffix(t *testing.T) {
	outputDir := t.TempDir()
	for _, name := range []string{
		"sageattention-2.2.0+cu128torch2.9.0-cp312-cp312-win_amd64.whl",
		"sageattention-2.2.0+cu126torch2.5.1-cp312-cp312-win_amd64.whl",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(outputDir, name), []byte("x"), 0o644))
	}

	artifacts, err := CollectArtifacts(outputDir, "+cu128torch2.9.0")
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	require.Contains(t, filepath.Base(artifacts[0]), "+cu128torch2.9.0")

	_, err = CollectArtifacts(outputDir, "+cu129torch2.10.0")
	require.Error(t, err)
	require.Contains(t, err.Error(), "No wheels tagged")
}
