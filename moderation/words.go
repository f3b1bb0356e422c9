package moderation

import (
	"bufio"
	"embed"
	"fmt"
	"strings"
)

//go:embed censored/*.txt
var censoredFolder embed.FS

// LoadCensoredWords reads the embedded word lists, one word per line,
// skipping blanks and # comments.
func LoadCensoredWords() ([]string, error) {
	entries, err := censoredFolder.ReadDir("censored")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var words []string
	for _, entry := range entries {
		file, err := censoredFolder.Open("censored/" + entry.Name())
		if err != nil {
			return nil, err
		}
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word == "" || strings.HasPrefix(word, "#") {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
		}
		_ = file.Close()
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(words) == 0 {
		return nil, fmt.Errorf("no censored words found")
	}
	return words, nil
}
