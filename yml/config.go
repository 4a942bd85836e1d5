package yml

import (
	"bytes"
)

// Format is the syntax a source document is written in.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type IndentationStyle string

const (
	IndentationStyleSpace IndentationStyle = "space"
	IndentationStyleTab   IndentationStyle = "tab"
)

// Config describes the layout of a source document.
type Config struct {
	Indentation      int              // The indentation level of the document
	IndentationStyle IndentationStyle // The indentation style of the document
	OriginalFormat   Format           // The original input format
}

var defaultConfig = Config{
	Indentation:      2,
	IndentationStyle: IndentationStyleSpace,
	OriginalFormat:   FormatYAML,
}

// GetConfigFromData inspects raw document bytes and reports their format and indentation.
func GetConfigFromData(data []byte) Config {
	cfg := defaultConfig

	cfg.OriginalFormat, cfg.Indentation, cfg.IndentationStyle = inspectData(data)
	return cfg
}

func inspectData(data []byte) (Format, int, IndentationStyle) {
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))

	foundIndentation := false
	foundDocFormat := false

	indentation := 2
	indentationStyle := IndentationStyleSpace
	docFormat := FormatYAML

	// Track the minimum leading whitespace to establish baseline
	minLeadingWhitespace := -1

	for i, line := range lines {
		trimLine := bytes.TrimSpace(line)

		if len(trimLine) == 0 {
			continue
		}

		switch trimLine[0] {
		case '#':
			continue
		case '{', '[':
			if i == 0 {
				docFormat = FormatJSON
				foundDocFormat = true
			}
		default:
			currentLeading := 0
			for currentLeading < len(line) && (line[currentLeading] == ' ' || line[currentLeading] == '\t') {
				currentLeading++
			}

			if minLeadingWhitespace == -1 || currentLeading < minLeadingWhitespace {
				minLeadingWhitespace = currentLeading
			}

			// Look for indentation relative to the baseline
			if currentLeading > minLeadingWhitespace && !foundIndentation {
				leadingWhitespace := line[minLeadingWhitespace:currentLeading]

				if leadingWhitespace[0] == '\t' {
					indentationStyle = IndentationStyleTab
				} else {
					indentationStyle = IndentationStyleSpace
				}

				indentation = 0
				for _, ch := range leadingWhitespace {
					if ch != leadingWhitespace[0] {
						break
					}
					indentation++
				}
				foundIndentation = true
			}
		}

		// If we have found everything we need or have iterated too long we can stop
		if foundIndentation && (foundDocFormat || i > 10) {
			break
		}
	}
	return docFormat, indentation, indentationStyle
}
