package adapters

import (
	"fmt"
	"path/filepath"
	"strings"

	"projmerge/internal/services"
)

// Format identifies the schema of a delimited file.
type Format string

const (
	FormatMain Format = "main"
	FormatBIA  Format = "bia"
	FormatDOE  Format = "doe"
	FormatDOI  Format = "doi"
	FormatEPA  Format = "epa"
	FormatNOAA Format = "noaa"
	FormatUSBR Format = "usbr"
)

// SourceFormats lists the incoming-feed formats in detection order.
var SourceFormats = []Format{FormatBIA, FormatDOE, FormatDOI, FormatEPA, FormatNOAA, FormatUSBR}

// Prefix returns the upper-case tag used for minted identifiers.
func (f Format) Prefix() string {
	return strings.ToUpper(string(f))
}

// DetectFormat selects a source format from a file name. The first tag found
// in the lower-cased base name wins.
func DetectFormat(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	for _, f := range SourceFormats {
		if strings.Contains(name, string(f)) {
			return f, nil
		}
	}
	tags := make([]string, len(SourceFormats))
	for i, f := range SourceFormats {
		tags[i] = string(f)
	}
	return "", services.Wrap(
		services.ErrInput,
		"adapters",
		"detect format",
		fmt.Sprintf("unknown source format for %q; file name must contain one of: %s", filepath.Base(path), strings.Join(tags, ", ")),
		nil,
	)
}

// DataSource renders the registry "Data Source" value for a source file:
// the upper-cased base name up to its first dot.
func DataSource(sourceFile string) string {
	base := strings.ToUpper(filepath.Base(sourceFile))
	if base == "." || base == "" {
		return ""
	}
	head, _, _ := strings.Cut(base, ".")
	return head
}
