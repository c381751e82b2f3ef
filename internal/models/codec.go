package models

import "time"

// Helpers for decoding store documents. The entity store hands back
// map[string]interface{} documents whose value types depend on the backing
// database (Firestore returns int64 for integers, time.Time for timestamps;
// tests may store plain ints). These accessors normalize that and treat a
// missing or mistyped field as absent.

func docString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func docBool(data map[string]interface{}, key string) (value, present bool) {
	if v, ok := data[key].(bool); ok {
		return v, true
	}
	return false, false
}

func docInt(data map[string]interface{}, key string) (int, bool) {
	switch v := data[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func docFloat(data map[string]interface{}, key string) (float64, bool) {
	switch v := data[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func docTime(data map[string]interface{}, key string) *time.Time {
	if v, ok := data[key].(time.Time); ok {
		t := v.UTC()
		return &t
	}
	return nil
}

func docStrings(data map[string]interface{}, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func docMap(data map[string]interface{}, key string) map[string]interface{} {
	if v, ok := data[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}
