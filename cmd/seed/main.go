// seed aplica los scripts SQL de migrations/ en orden lexicográfico contra la
// base configurada (esquema inicial + denominaciones).
//
// Uso: go run ./cmd/seed [ruta/migrations]
// Por defecto busca el directorio migrations/ en la raíz del módulo.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Facturacion-api/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	dir := filepath.Join(findModuleRoot(), "migrations")
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer directorio de migraciones: %v\n", err)
		os.Exit(1)
	}
	var scripts []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			scripts = append(scripts, e.Name())
		}
	}
	sort.Strings(scripts)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	for _, name := range scripts {
		sqlBytes, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer %s: %v\n", name, err)
			os.Exit(1)
		}
		if _, err := pool.Exec(ctx, string(sqlBytes)); err != nil {
			fmt.Fprintf(os.Stderr, "Ejecutar %s: %v\n", name, err)
			os.Exit(1)
		}
		fmt.Printf("Aplicado %s\n", name)
	}
	fmt.Printf("Listo: %d scripts aplicados\n", len(scripts))
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
