package export

import (
	"bytes"
	"html/template"

	"resume-builder/resume/model"
)

var staticPage = template.Must(template.New("static").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Resume - {{.FirstName}} {{.LastName}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; }
.header { text-align: center; margin-bottom: 30px; }
.section { margin-bottom: 20px; }
.section-title { font-size: 18px; font-weight: bold; margin-bottom: 10px; }
</style>
</head>
<body>
<div class="header">
<h1>{{.FirstName}} {{.LastName}}</h1>
<p>{{.Email}} | {{.Phone}} | {{.Address}}</p>
</div>
</body>
</html>
`))

// StaticHTML renders the standalone header page for the HTML download.
func StaticHTML(data model.ResumeData) ([]byte, error) {
	var buf bytes.Buffer
	if err := staticPage.Execute(&buf, data.PersonalInfo); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
