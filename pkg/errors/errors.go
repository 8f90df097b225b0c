package errors

const (
	CodeConfigNotFound     = "CONFIG_NOT_FOUND"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnsupportedVersion = "UNSUPPORTED_VERSION"
)

// Types ////////////////////////////////////////

type CodedError interface {
	Code() string
}

type codedError struct {
	code string
	msg  string
}

func (e *codedError) Error() string {
	return e.msg
}

func (e *codedError) Code() string {
	return e.code
}

// Error Creators ///////////////////////////////

// The wheelforge config was not found
func ConfigNotFound(msg string) error {
	return &codedError{
		code: CodeConfigNotFound,
		msg:  msg,
	}
}

// A build request field failed to parse
func InvalidInput(msg string) error {
	return &codedError{
		code: CodeInvalidInput,
		msg:  msg,
	}
}

// The requested CUDA or PyTorch version has no build matrix entry
func UnsupportedVersion(msg string) error {
	return &codedError{
		code: CodeUnsupportedVersion,
		msg:  msg,
	}
}

// Helpers //////////////////////////////////////

func IsConfigNotFound(err error) bool {
	return Code(err) == CodeConfigNotFound
}

func IsInvalidInput(err error) bool {
	return Code(err) == CodeInvalidInput
}

func IsUnsupportedVersion(err error) bool {
	return Code(err) == CodeUnsupportedVersion
}

// Return the error code, or the empty string
func Code(err error) string {
	if cerr, ok := err.(CodedError); ok {
		return cerr.Code()
	}

	return ""
}
