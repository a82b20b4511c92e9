package maputil

import (
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
)

// NormalizeKey 입력 키를 snake_case로 정규화합니다.
// 예: "sourceUrl", "SourceURL", "source-url" -> "source_url"
func NormalizeKey(key string) string {
	return strcase.ToSnake(strings.TrimSpace(key))
}

// CanonicalKeys 모든 키를 snake_case로 정규화하고, aliases에 등록된 별칭 키를 정식 이름으로 바꾼 새 map을 반환합니다.
//
// aliases의 키와 값은 모두 snake_case로 기술합니다. (예: "preco_alvo": "target_price")
// 같은 정식 이름으로 모이는 키가 여럿이면 다음 순서로 하나만 남기며, 입력 map의 순회 순서와 무관하게 결과가 같습니다.
//
//  1. 정식 이름 표기의 키가 별칭보다 우선
//  2. 같은 부류끼리는 원본 키의 사전순
//  3. nil 값은 다른 키에 nil이 아닌 값이 있으면 밀려남
func CanonicalKeys(m map[string]any, aliases map[string]string) map[string]any {
	normalized := make(map[string]string, len(aliases))
	for alias, canonical := range aliases {
		normalized[NormalizeKey(alias)] = NormalizeKey(canonical)
	}

	type entry struct {
		key       string
		canonical string
		alias     bool
	}

	entries := make([]entry, 0, len(m))
	for key := range m {
		e := entry{key: key, canonical: NormalizeKey(key)}
		if canonical, ok := normalized[e.canonical]; ok {
			e.canonical, e.alias = canonical, true
		}
		entries = append(entries, e)
	}

	slices.SortFunc(entries, func(a, b entry) int {
		if a.alias != b.alias {
			if a.alias {
				return 1
			}
			return -1
		}
		return strings.Compare(a.key, b.key)
	})

	out := make(map[string]any, len(entries))
	for _, e := range entries {
		if v, exists := out[e.canonical]; !exists || v == nil {
			out[e.canonical] = m[e.key]
		}
	}

	return out
}
