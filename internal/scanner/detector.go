package scanner

import (
	"bytes"
	"io"

	"github.com/ralt/apkstats/internal/xmldoc"
	"github.com/spf13/afero"
)

// Byte prefixes of text XML
var (
	xmlDeclMagic = []byte("<?xml")
	utf8BOM      = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM   = []byte{0xFF, 0xFE}
	utf16BEBOM   = []byte{0xFE, 0xFF}
)

// DetectManifestFormat determines the manifest encoding from its first bytes
func DetectManifestFormat(fs afero.Fs, path string) (ManifestFormat, error) {
	f, err := fs.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	// Read first 512 bytes for magic byte detection
	header := make([]byte, 512)
	n, err := io.ReadFull(f, header)
	if err != nil && n == 0 {
		if err == io.EOF {
			return FormatUnknown, nil
		}
		return FormatUnknown, err
	}
	header = header[:n]

	if xmldoc.IsBinaryXML(header) {
		return FormatBinary, nil
	}

	if bytes.HasPrefix(header, utf8BOM) || bytes.HasPrefix(header, utf16LEBOM) || bytes.HasPrefix(header, utf16BEBOM) {
		return FormatText, nil
	}

	trimmed := bytes.TrimLeft(header, " \t\r\n")
	if bytes.HasPrefix(trimmed, xmlDeclMagic) || bytes.HasPrefix(trimmed, []byte("<")) {
		return FormatText, nil
	}

	return FormatUnknown, nil
}
