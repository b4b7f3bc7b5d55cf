package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"strings"

	"resume-builder/resume/model"
)

// DocxLines returns the labeled plain-text body of the document, one entry per paragraph.
func DocxLines(data model.ResumeData) []string {
	info := data.PersonalInfo
	lines := []string{
		"Resume for " + info.FirstName + " " + info.LastName,
		"Email: " + info.Email,
		"Phone: " + info.Phone,
		"",
		"PROFESSIONAL SUMMARY",
		info.Summary,
		"",
		"WORK EXPERIENCE",
	}
	for _, exp := range data.WorkExperience {
		end := exp.EndDate
		if exp.CurrentlyWorking {
			end = model.PresentLabel
		}
		lines = append(lines,
			"",
			exp.Position+" at "+exp.Company,
			exp.StartDate+" - "+end,
			exp.Description,
		)
	}
	lines = append(lines, "", "EDUCATION")
	for _, edu := range data.Education {
		end := edu.EndDate
		if edu.CurrentlyStudying {
			end = model.PresentLabel
		}
		lines = append(lines,
			"",
			edu.Degree+" in "+edu.FieldOfStudy,
			edu.Institution,
			edu.StartDate+" - "+end,
		)
	}
	return lines
}

// DocxText joins DocxLines with newlines.
func DocxText(data model.ResumeData) string {
	return strings.Join(DocxLines(data), "\n")
}

const (
	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

	documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

	documentOpen  = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" + `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentClose = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"/></w:sectPr></w:body></w:document>`
)

// Docx packages DocxLines as a WordprocessingML document with one paragraph per line.
func Docx(data model.ResumeData) ([]byte, error) {
	var doc bytes.Buffer
	doc.WriteString(documentOpen)
	for _, line := range DocxLines(data) {
		if line == "" {
			doc.WriteString("<w:p/>")
			continue
		}
		doc.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		if err := xml.EscapeText(&doc, []byte(line)); err != nil {
			return nil, err
		}
		doc.WriteString("</w:t></w:r></w:p>")
	}
	doc.WriteString(documentClose)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	parts := []struct {
		name string
		body []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/document.xml", doc.Bytes()},
	}
	for _, part := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: part.name, Method: zip.Deflate})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(part.body); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
