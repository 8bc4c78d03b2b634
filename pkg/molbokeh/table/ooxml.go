package table

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path"
	"strconv"
	"strings"
)

// EMUPerPixel is the number of EMUs (English Metric Units) per pixel at 96 DPI.
// 914400 EMU = 1 inch = 96 pixels.
const EMUPerPixel = 9525

// EMUToPixels converts EMU to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}

type sheetRef struct {
	name string
	rID  string
}

type sheetDrawing struct {
	sheet string
	path  string
}

// getSheetDrawings returns each worksheet with the path of its drawing
// part, in workbook order. Sheets without drawings are omitted.
func getSheetDrawings(r *zip.Reader) []sheetDrawing {
	var result []sheetDrawing

	workbookXML, err := readZipFile(r, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return result
	}
	sheets := parseWorkbookSheets(workbookXML)

	wbRelsXML, err := readZipFile(r, "xl/_rels/workbook.xml.rels")
	if err != nil || wbRelsXML == nil {
		return result
	}
	sheetFiles := parseRelationships(wbRelsXML, "worksheet")

	for _, sheet := range sheets {
		target, ok := sheetFiles[sheet.rID]
		if !ok {
			continue
		}
		sheetPath := resolveRelativePath(target, "xl")
		relsXML, err := readZipFile(r, relsPathFor(sheetPath))
		if err != nil || relsXML == nil {
			continue
		}
		for _, target := range parseRelationships(relsXML, "drawing") {
			// a worksheet has at most one drawing part
			result = append(result, sheetDrawing{sheet: sheet.name, path: resolveRelativePath(target, path.Dir(sheetPath))})
			break
		}
	}
	return result
}

// relsPathFor returns the relationship part of a package part, e.g.
// xl/worksheets/sheet1.xml -> xl/worksheets/_rels/sheet1.xml.rels.
func relsPathFor(part string) string {
	dir, file := "", part
	if i := strings.LastIndex(part, "/"); i >= 0 {
		dir, file = part[:i+1], part[i+1:]
	}
	return dir + "_rels/" + file + ".rels"
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

func readElementText(decoder *xml.Decoder) (string, error) {
	var text string
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text, err
		}
		switch t := token.(type) {
		case xml.CharData:
			text += string(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text, nil
}

// resolveRelativePath resolves a relationship target against the
// directory of its source part.
func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	parts := strings.Split(baseDir, "/")
	for strings.HasPrefix(target, "../") {
		target = strings.TrimPrefix(target, "../")
		if len(parts) > 0 {
			parts = parts[:len(parts)-1]
		}
	}
	if len(parts) == 0 {
		return target
	}
	return strings.Join(parts, "/") + "/" + target
}

// parseWorkbookSheets returns the sheets declared in workbook.xml in order.
func parseWorkbookSheets(data []byte) []sheetRef {
	var result []sheetRef
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var ref sheetRef
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "name":
					ref.name = attr.Value
				case "id":
					ref.rID = attr.Value
				}
			}
			if ref.name != "" && ref.rID != "" {
				result = append(result, ref)
			}
		}
	}

	return result
}

// parseRelationships maps relationship id to target for relationships
// whose type ends in kind (e.g., "chart", "drawing", "worksheet").
func parseRelationships(data []byte, kind string) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rID, target, relType string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rID = attr.Value
				case "Target":
					target = attr.Value
				case "Type":
					relType = attr.Value
				}
			}
			if strings.HasSuffix(strings.ToLower(relType), "/"+kind) {
				result[rID] = target
			}
		}
	}

	return result
}

// parseXfrm parses an xfrm element for its pixel size.
func parseXfrm(decoder *xml.Decoder) (width, height int) {
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local != "ext" {
				continue
			}
			for _, attr := range t.Attr {
				switch attr.Name.Local {
				case "cx":
					if cx, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
						width = EMUToPixels(cx)
					}
				case "cy":
					if cy, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
						height = EMUToPixels(cy)
					}
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}
