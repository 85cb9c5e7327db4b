// Package pdf implementa el reporte PDF de la ficha del alumno.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Escola + dirección  │  RELATÓRIO DO ALUNO + fecha   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALUNO: nombre, matrícula, turma, responsable                │
//	│  CONDIÇÕES: nombre + CID + observación                       │
//	│  TABLA NOTAS: Matéria | Ano | 1º | 2º | 3º | 4º               │
//	│  AVALIAÇÕES: fecha | atenção | interação | autonomia | comp.  │
//	│  OBSERVAÇÕES e INSIGHTS: texto corrido                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/ports"
)

var _ ports.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 46, Green: 84, Blue: 140}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// wrapWidth caracteres por línea de texto corrido a tamaño 8.
const wrapWidth = 115

// MarotoPDFGenerator implementa ports.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

// GenerateStudentReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStudentReport(
	_ context.Context,
	record *dto.StudentFullDataResponse,
	insights []dto.InsightResponse,
) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("pdf: ficha vacía")
	}
	schoolName := "Cognitiva"
	if record.Escola != nil {
		schoolName = record.Escola.Nome
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório do aluno - "+record.Aluno.Nome, true).
		WithAuthor(schoolName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(record, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(studentRow(record))

	m.AddRows(sectionTitle("CONDIÇÕES"))
	m.AddRows(conditionRows(record.Condicoes)...)

	m.AddRows(sectionTitle("NOTAS BIMESTRAIS"))
	m.AddRows(gradeRows(record.Notas)...)

	m.AddRows(sectionTitle("AVALIAÇÕES SOCIOEMOCIONAIS (1-5)"))
	m.AddRows(evaluationRows(record.Avaliacoes)...)

	m.AddRows(sectionTitle("OBSERVAÇÕES"))
	if len(record.Observacoes) == 0 {
		m.AddRows(emptyRow())
	}
	for _, o := range record.Observacoes {
		m.AddRows(paragraphRows(o.Data.Format("02/01/2006")+" - "+o.Texto)...)
	}

	m.AddRows(sectionTitle("INSIGHTS"))
	if len(insights) == 0 {
		m.AddRows(emptyRow())
	}
	for _, i := range insights {
		m.AddRows(row.New(5).Add(col.New(12).Add(
			text.New(i.CreatedAt.Format("02/01/2006 15:04")+" - "+i.Prompt, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			}),
		)))
		m.AddRows(paragraphRows(i.Conteudo)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: escuela (izq) y título + fecha de emisión (der).
func headerRow(record *dto.StudentFullDataResponse, now time.Time) core.Row {
	name, address := "Cognitiva", ""
	if record.Escola != nil {
		name = record.Escola.Nome
		address = record.Escola.Endereco
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(address, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RELATÓRIO DO ALUNO", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido em "+now.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func studentRow(record *dto.StudentFullDataResponse) core.Row {
	a := record.Aluno
	turma := "—"
	if record.Turma != nil {
		turma = fmt.Sprintf("%s (%d, %s)", record.Turma.Nome, record.Turma.AnoLetivo, record.Turma.Turno)
	}
	nascimento := "—"
	if a.DataNascimento != nil {
		nascimento = a.DataNascimento.Format("02/01/2006")
	}
	return row.New(20).Add(
		col.New(12).Add(
			text.New(a.Nome, props.Text{Style: fontstyle.Bold, Size: 11, Top: 2}),
			text.New(fmt.Sprintf("Matrícula: %s   |   Nascimento: %s   |   Turma: %s",
				a.Matricula, nascimento, turma,
			), props.Text{Size: 8, Top: 9, Color: colorGray}),
			text.New("Responsável: "+nonEmpty(a.Responsavel, "—"), props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(9).Add(col.New(12).Add(
		text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 4,
		}),
	))
}

func emptyRow() core.Row {
	return row.New(5).Add(col.New(12).Add(
		text.New("Sem registros.", props.Text{Size: 8, Color: colorGray, Top: 1}),
	))
}

func conditionRows(list []dto.StudentConditionResponse) []core.Row {
	if len(list) == 0 {
		return []core.Row{emptyRow()}
	}
	rows := make([]core.Row, 0, len(list))
	for _, c := range list {
		label := c.Nome
		if c.CID != "" {
			label += " (CID " + c.CID + ")"
		}
		if c.Observacao != "" {
			label += " - " + c.Observacao
		}
		rows = append(rows, paragraphRows(label)...)
	}
	return rows
}

// gradeRows: una fila por materia y año, con los cuatro bimestres en columnas.
func gradeRows(list []dto.GradeResponse) []core.Row {
	if len(list) == 0 {
		return []core.Row{emptyRow()}
	}
	type key struct {
		subject string
		year    int
	}
	table := make(map[key][4]string)
	keys := make([]key, 0)
	for _, g := range list {
		k := key{subject: nonEmpty(g.Materia, g.MateriaID), year: g.AnoLetivo}
		cells, ok := table[k]
		if !ok {
			keys = append(keys, k)
		}
		if g.Bimestre >= 1 && g.Bimestre <= 4 {
			cells[g.Bimestre-1] = g.Nota.StringFixed(2)
		}
		table[k] = cells
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].subject < keys[j].subject
	})

	rows := []core.Row{tableHeaderRow([]string{"Matéria", "Ano", "1º bim", "2º bim", "3º bim", "4º bim"}, []int{4, 2, 1, 1, 1, 1})}
	for _, k := range keys {
		cells := table[k]
		r := row.New(6).Add(
			col.New(4).Add(text.New(k.subject, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(strconv.Itoa(k.year), props.Text{Size: 8, Top: 1, Align: align.Center})),
		)
		for _, c := range cells {
			r.Add(col.New(1).Add(text.New(nonEmpty(c, "—"), props.Text{Size: 8, Top: 1, Align: align.Center})))
		}
		rows = append(rows, r)
	}
	return rows
}

func evaluationRows(list []dto.EvaluationResponse) []core.Row {
	if len(list) == 0 {
		return []core.Row{emptyRow()}
	}
	rows := []core.Row{tableHeaderRow(
		[]string{"Data", "Atenção", "Interação", "Autonomia", "Comportamento"},
		[]int{4, 2, 2, 2, 2},
	)}
	for _, e := range list {
		cell := func(v int) core.Col {
			return col.New(2).Add(text.New(strconv.Itoa(v), props.Text{Size: 8, Top: 1, Align: align.Center}))
		}
		rows = append(rows, row.New(6).Add(
			col.New(4).Add(text.New(e.Data.Format("02/01/2006"), props.Text{Size: 8, Top: 1, Left: 1})),
			cell(e.Atencao), cell(e.Interacao), cell(e.Autonomia), cell(e.Comportamento),
		))
		if e.Comentario != "" {
			rows = append(rows, paragraphRows(e.Comentario)...)
		}
	}
	return rows
}

// tableHeaderRow: cabecera con fondo de color.
func tableHeaderRow(labels []string, sizes []int) core.Row {
	r := row.New(7)
	for i, l := range labels {
		r.Add(col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center,
			Color: colorWhite, Top: 1.5,
		})))
	}
	r.WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	return r
}

// paragraphRows parte el texto en líneas de ancho fijo, una fila por línea.
func paragraphRows(s string) []core.Row {
	lines := wrap(s, wrapWidth)
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, row.New(4.5).Add(col.New(12).Add(
			text.New(l, props.Text{Size: 8, Top: 0.5, Left: 1}),
		)))
	}
	return rows
}

// wrap corta por palabras sin pasar de width runas por línea.
func wrap(s string, width int) []string {
	var out []string
	for _, para := range strings.Split(strings.TrimSpace(s), "\n") {
		var cur strings.Builder
		n := 0
		for _, w := range strings.Fields(para) {
			wl := len([]rune(w))
			if n > 0 && n+1+wl > width {
				out = append(out, cur.String())
				cur.Reset()
				n = 0
			}
			if n > 0 {
				cur.WriteByte(' ')
				n++
			}
			cur.WriteString(w)
			n += wl
		}
		if n > 0 {
			out = append(out, cur.String())
		}
	}
	return out
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
