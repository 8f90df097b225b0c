package build

import "context"

// Command abstracts the external tools a build run drives. The real
// implementation shells out; tests swap in a mock.
type Command interface {
	// Checkout clones repo at tag into dir.
	Checkout(ctx context.Context, repo string, tag string, dir string) error
	// BuildWheels invokes the wheel builder on the checkout in dir, writing
	// artifacts to outputDir. env is the complete builder configuration; the
	// process environment is only inherited, never used as a data channel.
	BuildWheels(ctx context.Context, dir string, outputDir string, env map[string]string) error
}
