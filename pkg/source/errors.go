package source

// SourceError represents audio-source acquisition and decode errors. The
// harmonic extractor inspects the code to pick the right fallback tier;
// nothing above the extractor ever sees these.
type SourceError struct {
	URL     string `json:"url"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeUnavailable       = "SOURCE_UNAVAILABLE"
	ErrCodeFetch             = "FETCH_FAILED"
	ErrCodeDecode            = "DECODE_FAILED"
	ErrCodeInvalidFormat     = "INVALID_FORMAT"
	ErrCodeFeatureIncomplete = "FEATURE_INCOMPLETE"
)

// NewSourceError creates a new source error
func NewSourceError(url, code, message string, cause error) *SourceError {
	return &SourceError{
		URL:     url,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
