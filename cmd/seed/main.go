// seed genera el script SQL que puebla las tablas paramétricas: el catálogo
// de transiciones del ciclo de vida y las monedas de cotización.
//
// Uso: go run ./cmd/seed
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalogos.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/contratos-api/internal/domain/entity"
)

type transicion struct {
	id                    int
	origen                string
	destino               string
	requiereComentario    bool
	requiereMotivoRechazo bool
}

// Tabla de transiciones del ciclo de vida. Los IDs 3, 4 y 5 son las acciones
// de revisión con restricción de rol adicional en la aplicación.
var transiciones = []transicion{
	{1, entity.EstadoBorrador, entity.EstadoEnRevision, false, false},
	{2, entity.EstadoBorrador, entity.EstadoAnulada, true, false},
	{3, entity.EstadoEnRevision, entity.EstadoAprobada, false, false},
	{4, entity.EstadoEnRevision, entity.EstadoAnulada, false, true},
	{5, entity.EstadoEnRevision, entity.EstadoBorrador, false, false},
	{6, entity.EstadoAprobada, entity.EstadoVigente, false, false},
	{7, entity.EstadoAprobada, entity.EstadoCancelada, true, false},
	{8, entity.EstadoVigente, entity.EstadoDeBaja, true, false},
	{9, entity.EstadoVigente, entity.EstadoCancelada, true, false},
}

type moneda struct {
	id        string
	nombre    string
	simbolo   string
	decimales int
}

var monedas = []moneda{
	{"CLP", "Peso chileno", "$", 0},
	{"UF", "Unidad de fomento", "UF", 2},
	{"USD", "Dólar estadounidense", "US$", 2},
}

func main() {
	var b strings.Builder
	b.WriteString("-- Generado por cmd/seed. No editar a mano.\n\n")

	b.WriteString("INSERT INTO transiciones (id, estado_origen, estado_destino, requiere_comentario, requiere_motivo_rechazo) VALUES\n")
	for i, t := range transiciones {
		sep := ","
		if i == len(transiciones)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  (%d, '%s', '%s', %t, %t)%s\n",
			t.id, t.origen, t.destino, t.requiereComentario, t.requiereMotivoRechazo, sep)
	}
	b.WriteString("ON CONFLICT (id) DO UPDATE SET\n")
	b.WriteString("  estado_origen = EXCLUDED.estado_origen,\n")
	b.WriteString("  estado_destino = EXCLUDED.estado_destino,\n")
	b.WriteString("  requiere_comentario = EXCLUDED.requiere_comentario,\n")
	b.WriteString("  requiere_motivo_rechazo = EXCLUDED.requiere_motivo_rechazo;\n\n")

	b.WriteString("INSERT INTO monedas (id, nombre, simbolo, decimales) VALUES\n")
	for i, m := range monedas {
		sep := ","
		if i == len(monedas)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  ('%s', '%s', '%s', %d)%s\n", m.id, m.nombre, m.simbolo, m.decimales, sep)
	}
	b.WriteString("ON CONFLICT (id) DO NOTHING;\n")

	out := filepath.Join("internal", "infrastructure", "postgres", "migrations", "002_seed_catalogos.sql")
	if err := os.WriteFile(out, []byte(b.String()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir %s: %v\n", out, err)
		os.Exit(1)
	}
	fmt.Printf("Escrito %s (%d transiciones, %d monedas)\n", out, len(transiciones), len(monedas))
}
