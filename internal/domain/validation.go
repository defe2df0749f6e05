package domain

import (
	"strings"
	"unicode/utf8"
)

// MaxQuestionLength is the upper bound on a question, in characters.
const MaxQuestionLength = 500

const (
	MsgQuestionRequired = "질문을 입력해주세요"
	MsgQuestionTooLong  = "질문이 너무 깁니다"
)

// ValidateQuestion trims raw and checks it is non-empty and at most
// MaxQuestionLength characters. It returns the trimmed question.
func ValidateQuestion(raw string) (string, error) {
	q := strings.TrimSpace(raw)
	if q == "" {
		return "", &ValidationError{Message: MsgQuestionRequired}
	}
	if utf8.RuneCountInString(q) > MaxQuestionLength {
		return "", &ValidationError{Message: MsgQuestionTooLong}
	}
	return q, nil
}

// RemainingChars returns how many characters can still be typed into a
// question of the given text. It never goes below zero.
func RemainingChars(text string) int {
	n := MaxQuestionLength - utf8.RuneCountInString(text)
	if n < 0 {
		return 0
	}
	return n
}
