// seed genera un script SQL para poblar el catálogo (unidades y artículos)
// a partir del XML exportado por el sistema de inventario anterior.
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

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogo struct {
	Unidades  []unidad   `xml:"unidad"`
	Articulos []articulo `xml:"articulo"`
}

type unidad struct {
	Nombre      string `xml:"nombre,attr"`
	Descripcion string `xml:"descripcion,attr"`
}

type articulo struct {
	StockNo     string `xml:"stock_no,attr"`
	Nombre      string `xml:"nombre,attr"`
	Unidad      string `xml:"unidad,attr"`
	Cantidad    int64  `xml:"cantidad,attr"`
	Descripcion string `xml:"descripcion,attr"`
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
	// El sistema anterior exporta en ISO-8859-1
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

	// Unidades únicas por nombre; las referenciadas por artículos también
	// cuentan aunque el export no las liste explícitamente
	unitMap := make(map[string]string)
	for _, u := range cat.Unidades {
		name := strings.TrimSpace(u.Nombre)
		if name == "" {
			continue
		}
		unitMap[name] = strings.TrimSpace(u.Descripcion)
	}
	for _, a := range cat.Articulos {
		name := strings.TrimSpace(a.Unidad)
		if name == "" {
			continue
		}
		if _, ok := unitMap[name]; !ok {
			unitMap[name] = ""
		}
	}

	var unitNames []string
	for n := range unitMap {
		unitNames = append(unitNames, n)
	}
	sort.Strings(unitNames)

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_catalog.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo inicial de unidades y artículos\n")
	out.WriteString("-- Generado desde el export XML del sistema anterior\n\n")

	out.WriteString("-- 1. Unidades\n")
	for _, n := range unitNames {
		fmt.Fprintf(out, "INSERT INTO units (id, name, description) VALUES (gen_random_uuid(), '%s', '%s')\n",
			escapeSQL(n), escapeSQL(unitMap[n]))
		out.WriteString("ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description;\n")
	}
	out.WriteString("\n")

	// 2. Artículos con subquery a la unidad. El export puede repetir stock_no
	// (lotes); se insertan tal cual, stock_no no es único.
	out.WriteString("-- 2. Artículos\n")
	skipped := 0
	for _, a := range cat.Articulos {
		stockNo := strings.TrimSpace(a.StockNo)
		name := strings.TrimSpace(a.Nombre)
		unitName := strings.TrimSpace(a.Unidad)
		if stockNo == "" || name == "" || unitName == "" || a.Cantidad < 0 {
			skipped++
			continue
		}
		fmt.Fprintf(out, "INSERT INTO stock_items (id, stock_no, name, description, unit_id, quantity)\n")
		fmt.Fprintf(out, "SELECT gen_random_uuid(), '%s', '%s', '%s', id, %d FROM units WHERE name = '%s';\n",
			escapeSQL(stockNo), escapeSQL(name), escapeSQL(a.Descripcion), a.Cantidad, escapeSQL(unitName))
	}

	fmt.Printf("Generado %s: %d unidades, %d artículos (%d descartados)\n",
		outPath, len(unitNames), len(cat.Articulos)-skipped, skipped)
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
