// seed genera un script SQL para poblar el catálogo de materiales y filamentos
// a partir del XML de catálogo que exportan los proveedores de filamento
// (codificado en ISO-8859-1).
//
// Uso: go run ./cmd/seed [ruta/catalogo.xml]
// Por defecto busca catalogo.xml en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalog.sql
package main

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogo struct {
	Filamentos []filamento `xml:"filamento"`
}

type filamento struct {
	Material string `xml:"material,attr"`
	Nombre   string `xml:"nombre,attr"`
	Color    string `xml:"color,attr"` // 6 dígitos hex sin '#'
}

func main() {
	xmlPath := "catalogo.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var cat catalogo
	dec := xml.NewDecoder(f)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "ISO-8859-1") || strings.EqualFold(charset, "ISO8859-1") {
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		}
		return input, nil
	}
	if err := dec.Decode(&cat); err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar XML: %v\n", err)
		os.Exit(1)
	}

	// Materiales únicos, con UUID estable dentro de esta corrida
	materialIDs := make(map[string]string)
	for _, fil := range cat.Filamentos {
		material := strings.ToUpper(strings.TrimSpace(fil.Material))
		if material == "" {
			continue
		}
		if _, ok := materialIDs[material]; !ok {
			materialIDs[material] = uuid.NewString()
		}
	}

	// Ordenar materiales por nombre para salida estable
	var materials []string
	for m := range materialIDs {
		materials = append(materials, m)
	}
	sort.Strings(materials)

	var sb strings.Builder
	sb.WriteString("-- Generado por cmd/seed a partir del catálogo de proveedor.\n")
	sb.WriteString("-- No editar a mano: regenerar con go run ./cmd/seed <catalogo.xml>\n\n")

	for _, m := range materials {
		sb.WriteString(fmt.Sprintf(
			"INSERT INTO materials (id, name) VALUES ('%s', '%s') ON CONFLICT (name) DO NOTHING;\n",
			materialIDs[m], escapeSQL(m),
		))
	}
	sb.WriteString("\n")

	count := 0
	for _, fil := range cat.Filamentos {
		material := strings.ToUpper(strings.TrimSpace(fil.Material))
		nombre := strings.TrimSpace(fil.Nombre)
		color := strings.TrimSpace(strings.TrimPrefix(fil.Color, "#"))
		if material == "" || nombre == "" || len(color) != 6 {
			continue
		}
		sb.WriteString(fmt.Sprintf(
			"INSERT INTO filaments (id, material_id, name, color_hex) VALUES ('%s', '%s', '%s', '%s') ON CONFLICT DO NOTHING;\n",
			uuid.NewString(), materialIDs[material], escapeSQL(nombre), strings.ToLower(color),
		))
		count++
	}

	outPath := filepath.Join("internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	if err := os.WriteFile(outPath, []byte(sb.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Escrito %s: %d materiales, %d filamentos\n", outPath, len(materials), count)
}

// escapeSQL duplica comillas simples para literales SQL.
func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
