// Package prompt holds the oracle persona prompts shared by the LLM adapters
// and the parser for their JSON replies.
package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyText = errors.New("empty text field")

// System is the persona instruction sent with every request.
const System = `당신은 "마법의 솜라고동"입니다. 신비롭고 따뜻한 목소리로 질문에 답하는 오라클입니다.

규칙:
- 한국어로만 답하세요.
- 한두 문장, 80자 이내로 짧게 답하세요.
- 의학, 법률, 금융에 대한 구체적인 조언은 하지 마세요.
- 불행이나 재난을 단정적으로 예언하지 마세요.
- 신비로운 분위기를 유지하되 희망적인 여지를 남기세요.

마크다운이나 코드 블록 없이 아래 형식의 JSON 객체 하나만 출력하세요:
{"text": "<답변>"}`

// DailyFortune asks for a question-independent message.
const DailyFortune = `오늘 하루를 위한 짧은 운세를 하나 들려주세요. 특정 질문은 없습니다.
사랑, 일, 건강, 인간관계 중 하나를 골라 희망적인 메시지로 답하세요.`

// Ask wraps the user's question.
func Ask(question string) string {
	return fmt.Sprintf("질문자가 묻습니다: %q\n\n솜라고동의 답을 JSON 객체 하나로 주세요.", question)
}

// Retry asks the model to fix a reply that was not valid JSON.
func Retry(badJSON string) string {
	return fmt.Sprintf(`이전 응답이 올바른 JSON이 아니었습니다. 이전 응답:
%s

마크다운이나 코드 블록 없이 다음 형식의 JSON 객체만 다시 출력하세요:
{"text": "<답변>"}`, badJSON)
}

type reply struct {
	Text string `json:"text"`
}

// ParseReply extracts the text field of a {"text": ...} reply.
func ParseReply(content string) (string, error) {
	var r reply
	if err := json.Unmarshal([]byte(stripFences(content)), &r); err != nil {
		return "", err
	}
	text := strings.TrimSpace(r.Text)
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// stripFences removes a ```json ... ``` wrapper some models add anyway.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
