package ccerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyInternalError(t *testing.T) {
	err := &InternalError{Msg: "pseudo-operand reached the emitter"}
	if Classify(err) != KindInternal {
		t.Errorf("Classify(InternalError) = %v, want KindInternal", Classify(err))
	}
}

func TestClassifyWrappedInternalError(t *testing.T) {
	wrapped := fmt.Errorf("emit: %w", &InternalError{Msg: "bad operand"})
	if Classify(wrapped) != KindInternal {
		t.Errorf("Classify(wrapped InternalError) = %v, want KindInternal", Classify(wrapped))
	}
}

func TestClassifyUserError(t *testing.T) {
	err := errors.New("file not found")
	if Classify(err) != KindUser {
		t.Errorf("Classify(plain error) = %v, want KindUser", Classify(err))
	}
}
