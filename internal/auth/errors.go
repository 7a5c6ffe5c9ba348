package auth

import "errors"

// CodedError carries a stable machine code alongside the user-facing
// message shown by the web client.
type CodedError struct {
	Code    string
	Message string
}

func (e *CodedError) Error() string { return e.Code }

var (
	ErrEmailAlreadyInUse = &CodedError{
		Code:    "auth/email-already-in-use",
		Message: "이미 사용 중인 이메일 주소입니다.",
	}
	ErrInvalidEmail = &CodedError{
		Code:    "auth/invalid-email",
		Message: "유효하지 않은 이메일 주소입니다.",
	}
	ErrWeakPassword = &CodedError{
		Code:    "auth/weak-password",
		Message: "비밀번호가 너무 약합니다. 최소 6자 이상이어야 합니다.",
	}
	ErrInvalidCredential = &CodedError{
		Code:    "auth/invalid-credential",
		Message: "로그인에 실패했습니다. 이메일과 비밀번호를 확인해 주세요.",
	}

	ErrUnauthorized = errors.New("unauthorized")
)

// AsCoded unwraps err into a CodedError when it is one.
func AsCoded(err error) (*CodedError, bool) {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded, true
	}
	return nil, false
}
