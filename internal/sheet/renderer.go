package sheet

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/cdmi123/progress-report/internal/model"

	"github.com/go-pdf/fpdf"
)

const (
	signatureImage = "student-signature"
	signatureBoxW  = 60.0
	signatureBoxH  = 18.0
	fontFamily     = "Helvetica"
)

// Document 渲染一张进度表所需的数据
type Document struct {
	StudentName   string
	CourseName    string
	Topics        []model.TopicProgress
	SignatureData string
}

type Renderer struct {
	InstituteName string
	// Compress 关闭时内容流为明文, 便于测试检查
	Compress bool
}

func NewRenderer(instituteName string) *Renderer {
	return &Renderer{InstituteName: instituteName, Compress: true}
}

// Result 渲染统计
type Result struct {
	Pages     int
	Signature bool
}

type drawer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	sig *Signature
}

// wrap 按单字节编码后的宽度折行, 超长单词按字符拆分
func (d *drawer) wrap(text string, width float64) []string {
	text = d.tr(strings.TrimSpace(text))
	if text == "" {
		return []string{""}
	}

	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if d.pdf.GetStringWidth(candidate) <= width {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
		for d.pdf.GetStringWidth(word) > width && len(word) > 1 {
			n := 1
			for n < len(word) && d.pdf.GetStringWidth(word[:n+1]) <= width {
				n++
			}
			lines = append(lines, word[:n])
			word = word[n:]
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Render 两遍渲染: 先排版得到总页数, 再逐页绘制
func (r *Renderer) Render(w io.Writer, doc Document) (*Result, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.Compress)
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(fmt.Sprintf("Progress Report - %s - %s", doc.StudentName, doc.CourseName), true)
	pdf.SetAuthor(r.InstituteName, true)
	pdf.SetCreator("progress-report", true)

	d := &drawer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFont(fontFamily, "", FontSize)

	pages := Layout(doc.Topics, d.wrap)
	d.registerSignature(doc.SignatureData)

	for _, page := range pages {
		pdf.AddPage()
		if page.Number == 1 {
			d.title(r.InstituteName, doc.CourseName)
		}
		d.row(page.Header, ColumnHeaders[colNo], ColumnHeaders[colDate], true)
		for _, row := range page.Rows {
			d.row(row, row.No, row.Date, false)
		}
		if page.Empty {
			pdf.SetFont(fontFamily, "", FontSize)
			pdf.SetXY(Margin+10, page.TableTop+page.Header.Height+10)
			pdf.CellFormat(TableWidth()-20, LineHeight, EmptyMessage, "", 0, "L", false, 0, "")
		}
		d.pageNumber(page.Number, len(pages))
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	if err := pdf.Output(w); err != nil {
		return nil, err
	}
	return &Result{Pages: len(pages), Signature: d.sig != nil}, nil
}

// registerSignature 每个文档只解码一次; 失败时退回占位符
func (d *drawer) registerSignature(data string) {
	if strings.TrimSpace(data) == "" {
		return
	}
	sig, err := DecodeSignature(data, signatureBoxW, signatureBoxH)
	if err != nil {
		return
	}
	d.pdf.RegisterImageOptionsReader(signatureImage, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(sig.PNG))
	if d.pdf.Err() {
		d.pdf.ClearError()
		return
	}
	d.sig = sig
}

func (d *drawer) title(institute, course string) {
	pdf := d.pdf
	width := RuleRight - RuleLeft

	pdf.SetFont(fontFamily, "B", 18)
	pdf.SetXY(RuleLeft, Margin)
	pdf.CellFormat(width, 22, d.tr(institute), "", 1, "C", false, 0, "")

	pdf.SetFont(fontFamily, "", 14)
	pdf.SetXY(RuleLeft, Margin+26)
	pdf.CellFormat(width, 17, d.tr(fmt.Sprintf("PROGRESS REPORT (%s)", course)), "", 1, "C", false, 0, "")

	ruleY := Margin + 47
	pdf.SetLineWidth(1)
	pdf.Line(RuleLeft, ruleY, RuleRight, ruleY)
}

func (d *drawer) row(row Row, no, date string, header bool) {
	pdf := d.pdf
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontFamily, style, FontSize)
	pdf.SetLineWidth(0.5)

	if row.Shade {
		pdf.SetFillColor(0xf5, 0xf5, 0xf5)
		pdf.Rect(Margin, row.Y, TableWidth(), row.Height, "F")
	}
	for i, cw := range ColumnWidths {
		pdf.Rect(columnX(i), row.Y, cw, row.Height, "D")
	}

	textY := row.Y + CellPadding
	d.cell(colNo, textY, no, "C")
	for i, line := range row.Lines {
		pdf.SetXY(columnX(colTopic)+CellPadding, textY+float64(i)*LineHeight)
		pdf.CellFormat(topicWidth(), LineHeight, line, "", 0, "L", false, 0, "")
	}
	d.cell(colDate, textY, date, "C")

	if header {
		d.cell(colStudentSign, textY, ColumnHeaders[colStudentSign], "C")
		d.cell(colSupervisorSign, textY, ColumnHeaders[colSupervisorSign], "C")
		return
	}

	if d.sig != nil {
		w, h := fit(d.sig.Width, d.sig.Height, signatureBoxW, signatureBoxH)
		x := columnX(colStudentSign) + (ColumnWidths[colStudentSign]-w)/2
		y := row.Y + 3 + (signatureBoxH-h)/2
		pdf.ImageOptions(signatureImage, x, y, w, h, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	} else {
		d.cell(colStudentSign, textY, Placeholder, "C")
	}
	// 主管签字栏留空
}

func (d *drawer) cell(col int, y float64, text, align string) {
	d.pdf.SetXY(columnX(col), y)
	d.pdf.CellFormat(ColumnWidths[col], LineHeight, d.tr(text), "", 0, align, false, 0, "")
}

func (d *drawer) pageNumber(n, total int) {
	d.pdf.SetFont(fontFamily, "", 9)
	d.pdf.SetXY(Margin, PageNumberY)
	d.pdf.CellFormat(PageWidth-2*Margin, 10, fmt.Sprintf("Page %d of %d", n, total), "", 0, "C", false, 0, "")
}

var unsafeFilename = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)

// Filename <学生>_<课程>_Sheet.pdf
func Filename(studentName, courseName string) string {
	name := fmt.Sprintf("%s_%s_Sheet.pdf", strings.TrimSpace(studentName), strings.TrimSpace(courseName))
	return unsafeFilename.ReplaceAllString(name, "_")
}
