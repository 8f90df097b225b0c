package build

import "context"

// MockCommand records calls and delegates to optional function fields.
type MockCommand struct {
	CheckoutFn    func(ctx context.Context, repo string, tag string, dir string) error
	BuildWheelsFn func(ctx context.Context, dir string, outputDir string, env map[string]string) error

	CheckoutCalls    []string
	BuildWheelsCalls []map[string]string
}

func (m *MockCommand) Checkout(ctx context.Context, repo string, tag string, dir string) error {
	m.CheckoutCalls = append(m.CheckoutCalls, repo+"@"+tag)
	if m.CheckoutFn != nil {
		return m.CheckoutFn(ctx, repo, tag, dir)
	}
	return nil
}

func (m *MockCommand) BuildWheels(ctx context.Context, dir string, outputDir string, env map[string]string) error {
	m.BuildWheelsCalls = append(m.BuildWheelsCalls, env)
	if m.BuildWheelsFn != nil {
		return m.BuildWheelsFn(ctx, dir, outputDir, env)
	}
	return nil
}
