package i18n

// Translator retrieves localized messages for issue codes.
// data provides optional metadata to embed in the message (for example,
// "name" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "MISSING_REQUIRED_PARAMETER":
			return "必須パラメータが不足しています"
		case "SCHEMA_VALIDATION_FAILED":
			return "スキーマ検証に失敗しました"
		case "coercion_failed":
			return "型変換に失敗しました"
		case "invalid_type":
			return "型が不正です"
		case "invalid_format":
			return "フォーマットが不正です"
		case "invalid_enum":
			return "許可されていない値です"
		case "required":
			return "必須プロパティが不足しています"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "too_short":
			return "短すぎます"
		case "too_long":
			return "長すぎます"
		case "too_few_items":
			return "要素が少なすぎます"
		case "too_many_items":
			return "要素が多すぎます"
		case "duplicate_items":
			return "要素が重複しています"
		case "pattern":
			return "パターンに一致しません"
		case "not_multiple":
			return "倍数ではありません"
		case "union_mismatch":
			return "どの候補スキーマにも一致しません"
		case "ref_unresolved":
			return "参照を解決できません"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "MISSING_REQUIRED_PARAMETER":
			return "required parameter is missing"
		case "SCHEMA_VALIDATION_FAILED":
			return "value failed schema validation"
		case "coercion_failed":
			return "value could not be coerced"
		case "invalid_type":
			return "invalid type"
		case "invalid_format":
			return "invalid format"
		case "invalid_enum":
			return "value not allowed by enum"
		case "required":
			return "required property missing"
		case "too_small":
			return "too small"
		case "too_big":
			return "too big"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "too_few_items":
			return "too few items"
		case "too_many_items":
			return "too many items"
		case "duplicate_items":
			return "duplicate items"
		case "pattern":
			return "pattern mismatch"
		case "not_multiple":
			return "not a multiple"
		case "union_mismatch":
			return "no alternative schema matched"
		case "ref_unresolved":
			return "unresolved reference"
		case "parse_error":
			return "parse error"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
