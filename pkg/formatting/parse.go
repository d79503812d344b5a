// Package formatting parses structured payloads out of free-text model
// responses. Models are asked for bare JSON but routinely wrap it in a
// markdown code fence; both forms are accepted.
package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON,
// either directly or from a markdown code fence.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Parse attempts to unmarshal content as JSON into T.
// If direct parsing fails, it extracts JSON from a markdown code fence
// and retries. Returns ErrParseFailed if both attempts fail.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	matches := jsonBlockRegex.FindStringSubmatch(content)
	if len(matches) >= 2 {
		cleaned := strings.TrimSpace(matches[1])
		if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, content)
}

// ParseList parses content as a JSON array of T. A response carrying a
// single bare object instead of an array is accepted and wrapped in a
// one-element slice, since models asked for arrays occasionally drop the
// brackets for singleton results.
func ParseList[T any](content string) ([]T, error) {
	list, err := Parse[[]T](content)
	if err == nil {
		return list, nil
	}

	single, singleErr := Parse[T](content)
	if singleErr != nil {
		return nil, err
	}
	return []T{single}, nil
}
