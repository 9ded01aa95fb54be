package models

import "strings"

// TrackedSymbol тикер из watch-list пользователя
type TrackedSymbol struct {
	Code string `json:"code"`
}

// NormalizeCode приводит код к виду, в котором он хранится и сравнивается.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ContainsCode ищет код в наборе по нормализованному равенству.
func ContainsCode(symbols []TrackedSymbol, code string) bool {
	needle := NormalizeCode(code)
	for _, s := range symbols {
		if NormalizeCode(s.Code) == needle {
			return true
		}
	}
	return false
}

func CloneSymbols(in []TrackedSymbol) []TrackedSymbol {
	if in == nil {
		return nil
	}
	out := make([]TrackedSymbol, len(in))
	copy(out, in)
	return out
}
