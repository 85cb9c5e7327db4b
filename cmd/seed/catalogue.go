package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
)

// parseCatalogue lee filas nome;cid;descricao. La primera fila se salta si es cabecera.
// Las planillas exportadas desde Excel en Windows suelen venir en ISO-8859-1.
func parseCatalogue(r io.Reader, latin1 bool) ([]entity.MedicalCondition, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []entity.MedicalCondition
	seen := make(map[string]bool)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "nome") {
			continue
		}
		name := strings.TrimSpace(rec[0])
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("línea %d: condición %q repetida", line, name)
		}
		seen[key] = true
		c := entity.MedicalCondition{Name: name}
		if len(rec) > 1 {
			c.CID = strings.ToUpper(strings.TrimSpace(rec[1]))
		}
		if len(rec) > 2 {
			c.Description = strings.TrimSpace(rec[2])
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, errors.New("catálogo vacío")
	}
	return out, nil
}
