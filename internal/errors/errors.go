package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeProvider      ErrorType = "PROVIDER"
	TypeParse         ErrorType = "PARSE"
	TypeExtraction    ErrorType = "EXTRACTION"
	TypeStorage       ErrorType = "STORAGE"
	TypeClipboard     ErrorType = "CLIPBOARD"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if status, ok := e.Context["status"].(int); ok && status != 0 {
			msg += fmt.Sprintf(" - HTTP %d", status)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors of the same type and message, so a sentinel still
// matches after WithError/WithContext/WithSuggestion copied it.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// Configuration errors
var (
	ErrAPIKeyMissing = NewAppError(TypeConfiguration, "API key for the active provider is missing", nil).
				WithSuggestion("Run: mate-ticket config set openai-key <key>")

	ErrAzureConfigIncomplete = NewAppError(TypeConfiguration, "Azure OpenAI settings are incomplete", nil).
					WithSuggestion("Set azure-key, azure-endpoint, azure-deployment and azure-api-version with: mate-ticket config set")

	ErrUnknownProvider = NewAppError(TypeConfiguration, "unknown model provider", nil).
				WithSuggestion("Valid providers are: openai, azure")

	ErrJiraConfigMissing = NewAppError(TypeConfiguration, "Jira connection is not configured", nil).
				WithSuggestion("Export JIRA_URL, JIRA_EMAIL and JIRA_TOKEN or add them to ~/.mate-ticket/config.toml")
)

// Provider errors
var (
	ErrProvider = NewAppError(TypeProvider, "language model request failed", nil).
			WithSuggestion("Check your network connection and provider settings: mate-ticket config show")

	ErrProviderAuth = NewAppError(TypeProvider, "language model provider rejected the credentials", nil).
			WithSuggestion("Verify your API key: mate-ticket config set openai-key <key>")

	ErrEmptyCompletion = NewAppError(TypeProvider, "language model returned no choices", nil)
)

// Parse errors
var (
	ErrParse = NewAppError(TypeParse, "response does not match the expected JSON shape", nil)
)

// Extraction errors
var (
	ErrNoActiveTarget = NewAppError(TypeExtraction, "no active issue found", nil).
				WithSuggestion("Pass an issue key: mate-ticket load PROJ-123")

	ErrExtraction = NewAppError(TypeExtraction, "failed to get issue information", nil).
			WithSuggestion("Make sure the issue exists and your Jira credentials are valid")

	ErrUnknownAction = NewAppError(TypeExtraction, "unknown extractor action", nil)
)

// Storage errors
var (
	ErrStorageRead = NewAppError(TypeStorage, "failed to read from storage", nil)

	ErrStorageWrite = NewAppError(TypeStorage, "failed to write to storage", nil).
			WithSuggestion("Check permissions of ~/.mate-ticket")
)

// Clipboard errors
var (
	ErrClipboard = NewAppError(TypeClipboard, "failed to write to the clipboard", nil).
			WithSuggestion("On Linux install xclip, xsel or wl-clipboard")
)

// Internal errors
var (
	// ErrActionFailed marks a command whose action left an error banner. The
	// banner has already been printed.
	ErrActionFailed = NewAppError(TypeInternal, "action finished with an error", nil)
)
