package outcome

import "fmt"

// Outcome is the interpreted result of a shell-backed operation.
// Message is meaningful only when Succeeded is true, Error only when it is false.
type Outcome struct {
	Succeeded bool
	Message   string
	Error     string
}

// Success builds a successful Outcome carrying msg.
func Success(msg string) Outcome {
	return Outcome{Succeeded: true, Message: msg}
}

// Successf is Success with fmt.Sprintf formatting.
func Successf(format string, a ...any) Outcome {
	return Success(fmt.Sprintf(format, a...))
}

// Failure builds a failed Outcome carrying errText.
func Failure(errText string) Outcome {
	return Outcome{Succeeded: false, Error: errText}
}

// Failuref is Failure with fmt.Sprintf formatting.
func Failuref(format string, a ...any) Outcome {
	return Failure(fmt.Sprintf(format, a...))
}

// Text returns whichever of Message or Error applies.
func (o Outcome) Text() string {
	if o.Succeeded {
		return o.Message
	}
	return o.Error
}

func (o Outcome) String() string {
	if o.Succeeded {
		return "ok: " + o.Message
	}
	return "failed: " + o.Error
}
