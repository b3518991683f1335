package translation

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
)

// RootText returns the character data of the root element that precedes its
// first child element. Whitespace is preserved. A document without a root
// element, or a root without text, yields "". Input that is not well-formed
// XML yields a *ResponseFormatError.
func RootText(data []byte) (string, error) {
	dec := newDecoder(data)

	var (
		text     bytes.Buffer
		depth    int
		rootSeen bool
		children bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &ResponseFormatError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && rootSeen {
				return "", &ResponseFormatError{Err: errors.New("junk after document element")}
			}
			if depth == 0 {
				rootSeen = true
			} else {
				children = true
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			switch {
			case depth == 1 && !children:
				text.Write(t)
			case depth == 0 && len(bytes.TrimSpace(t)) > 0:
				return "", &ResponseFormatError{Err: errors.New("text outside document element")}
			}
		}
	}

	return text.String(), nil
}

// childTexts returns the text of every direct child of the root element, as
// used by array responses such as GetLanguagesForTranslate.
func childTexts(data []byte) ([]string, error) {
	dec := newDecoder(data)

	var (
		values  []string
		current bytes.Buffer
		depth   int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ResponseFormatError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				current.Reset()
			}
		case xml.EndElement:
			if depth == 2 {
				values = append(values, current.String())
			}
			depth--
		case xml.CharData:
			if depth == 2 {
				current.Write(t)
			}
		}
	}

	return values, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// newDecoder reads data as UTF-8 whatever encoding the prolog declares
func newDecoder(data []byte) *xml.Decoder {
	data = bytes.TrimPrefix(data, utf8BOM)
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return dec
}
