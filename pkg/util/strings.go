package util

import (
    "strconv"
    "strings"
)

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
    if s == "" {
        return def
    }
    v, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return v
}

// TitleMetric converts a snake_case metric name to a display form,
// e.g. "resting_heart_rate" -> "Resting Heart Rate".
func TitleMetric(name string) string {
    words := strings.Split(name, "_")
    for i, w := range words {
        if w == "" {
            continue
        }
        words[i] = strings.ToUpper(w[:1]) + w[1:]
    }
    return strings.Join(words, " ")
}