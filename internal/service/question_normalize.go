package service

import (
	"encoding/json"
	"fmt"
	"mindleap_backend/internal/model"
	"mindleap_backend/internal/util"
	"strconv"
	"strings"
)

// QuestionView 规整后的题目
type QuestionView struct {
	ID            uint          `json:"id"`
	SubjectID     uint          `json:"subjectId"`
	Question      string        `json:"question"`
	Options       model.Options `json:"options"`
	CorrectOption string        `json:"correctOption,omitempty"`
	Explanation   string        `json:"explanation,omitempty"`
}

// Public 隐藏答案与解析，作答前下发给学生
func (v QuestionView) Public() QuestionView {
	v.CorrectOption = ""
	v.Explanation = ""
	return v
}

// NormalizeOptions 兼容历史数据中的几种选项格式：
// {"a":..} / {"A":..} / {"0":..}..{"3":..} / {"1":..}..{"4":..} / ["..","..","..",".."]
func NormalizeOptions(raw []byte) (model.Options, error) {
	var opts model.Options
	if len(raw) == 0 {
		return opts, fmt.Errorf("%w: options missing", util.ErrMalformedQuestion)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) != len(model.OptionKeys) {
			return opts, fmt.Errorf("%w: expected 4 options, got %d", util.ErrMalformedQuestion, len(list))
		}
		return model.Options{A: list[0], B: list[1], C: list[2], D: list[3]}, nil
	}

	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return opts, fmt.Errorf("%w: options must be an object or a list of strings", util.ErrMalformedQuestion)
	}

	// 数字键：含 "0" 按 0 起始，否则按 1 起始
	_, hasZero := m["0"]
	oneBased := !hasZero

	byKey := make(map[string]string, len(m))
	for k, v := range m {
		key, err := NormalizeOptionKey(k, oneBased)
		if err != nil {
			return opts, fmt.Errorf("%w: unknown option key %q", util.ErrMalformedQuestion, k)
		}
		if _, dup := byKey[key]; dup {
			return opts, fmt.Errorf("%w: duplicate option %q", util.ErrMalformedQuestion, key)
		}
		byKey[key] = v
	}
	for _, k := range model.OptionKeys {
		if _, ok := byKey[k]; !ok {
			return opts, fmt.Errorf("%w: option %q missing", util.ErrMalformedQuestion, k)
		}
	}

	return model.Options{A: byKey[model.OptionA], B: byKey[model.OptionB], C: byKey[model.OptionC], D: byKey[model.OptionD]}, nil
}

// NormalizeOptionKey 把 "A"、"b"、"0"、"4" 之类的键统一成 a..d
func NormalizeOptionKey(k string, oneBased bool) (string, error) {
	k = strings.ToLower(strings.TrimSpace(k))
	for _, ok := range model.OptionKeys {
		if k == ok {
			return k, nil
		}
	}
	n, err := strconv.Atoi(k)
	if err != nil {
		return "", util.ErrInvalidOption
	}
	if oneBased {
		n--
	}
	if n < 0 || n >= len(model.OptionKeys) {
		return "", util.ErrInvalidOption
	}
	return model.OptionKeys[n], nil
}

// NormalizeCorrectOption 正确答案可能存成字母或下标（0 起始）
func NormalizeCorrectOption(k string) (string, error) {
	key, err := NormalizeOptionKey(k, false)
	if err != nil {
		return "", fmt.Errorf("%w: correct option %q", util.ErrMalformedQuestion, k)
	}
	return key, nil
}

// ToQuestionView 在读取边界统一规整题目，格式异常直接报错而不是填空字符串
func ToQuestionView(q *model.Question) (QuestionView, error) {
	opts, err := NormalizeOptions(q.Options)
	if err != nil {
		return QuestionView{}, fmt.Errorf("question %d: %w", q.ID, err)
	}
	correct, err := NormalizeCorrectOption(q.CorrectOption)
	if err != nil {
		return QuestionView{}, fmt.Errorf("question %d: %w", q.ID, err)
	}
	return QuestionView{
		ID:            q.ID,
		SubjectID:     q.SubjectID,
		Question:      q.Question,
		Options:       opts,
		CorrectOption: correct,
		Explanation:   q.Explanation,
	}, nil
}
