package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/docsieve/docsieve"
	"github.com/docsieve/docsieve/ingestion"
)

// demoDocuments is a small corpus for exercising search and classification
// without real files. Content is intentionally varied: invoices, contracts,
// technical notes.
var demoDocuments = map[string]string{
	"factura_443.txt": `Factura 443 emitida el 12/03/2024 por un total de $1500,00.
Cliente: Construcciones Martínez S.A., Barcelona.
Concepto: suministro de materiales para la obra del expediente EXP2041.
Forma de pago: transferencia bancaria a 30 días.
El importe incluye IVA al 21% sobre la base imponible de 1239,67 euros.
Vencimiento del pago: 11/04/2024. Referencia interna REF103.`,

	"contrato_arrendamiento.txt": `Contrato de arrendamiento de vivienda firmado ante notario el 01/02/2024.
El arrendador cede al arrendatario el uso de la vivienda situada en Madrid
por un periodo de cinco años, conforme al artículo 9 de la ley de
arrendamientos urbanos. La renta mensual se fija en 950 euros, actualizable
anualmente. Cada cláusula del presente contrato obliga a ambos firmantes.
En caso de demanda, las partes se someten a los juzgados de Madrid.`,

	"notas_servidor.txt": `Notas técnicas del servidor de producción, revisión del 20/05/2024.
El sistema ejecuta la versión 2.14 del software de indexación.
La base de datos almacena 48210 registros con copias de seguridad diarias.
Arquitectura: API REST sobre HTTP con autenticación por token.
Pendiente: migrar la configuración al nuevo formato y revisar el algoritmo
de compresión antes del despliegue del próximo trimestre.`,

	"informe_medico.txt": `Informe de consulta del paciente con historial de tratamiento crónico.
Diagnóstico: síntomas compatibles con el cuadro descrito en la consulta
anterior del 15/01/2024. Se ajusta la dosis del medicamento y se solicita
una receta renovable por tres meses. Próxima revisión clínica en junio.
El paciente deberá acudir con los resultados del laboratorio.`,

	"acta_reunion.txt": `Acta de la reunión del consejo de administración celebrada el 08/04/2024.
Asistentes: dirección general, gerencia y representantes de cada área.
Se aprueba el presupuesto del departamento de recursos humanos y la
estrategia comercial para la organización durante el próximo ejercicio.
La empresa revisará los objetivos en la junta de octubre.`,
}

var (
	dbPath  = flag.String("db", "./docsieve_db", "database directory")
	srcDir  = flag.String("src", "", "directory of documents to seed instead of the demo corpus")
	replace = flag.Bool("replace", false, "replace chunks from previously seeded sources")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// demoFiles returns the built-in corpus as uploads.
func demoFiles() []ingestion.FileUpload {
	files := make([]ingestion.FileUpload, 0, len(demoDocuments))
	for name, content := range demoDocuments {
		files = append(files, ingestion.FileUpload{Name: name, Data: []byte(content)})
	}
	return files
}

// filesFromDir reads every regular file in a directory as an upload.
func filesFromDir(dir string) ([]ingestion.FileUpload, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []ingestion.FileUpload
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, ingestion.FileUpload{Name: entry.Name(), Data: data})
	}
	return files, nil
}

func main() {
	lib, err := docsieve.Open(*dbPath)
	if err != nil {
		panic(err)
	}
	defer lib.Close()

	pipeline, err := lib.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	var files []ingestion.FileUpload
	if *srcDir != "" {
		files, err = filesFromDir(*srcDir)
		if err != nil {
			panic(err)
		}
	} else {
		files = demoFiles()
	}

	loaderOpts := []ingestion.LoaderOption{}
	if len(files) > ingestion.DefaultMaxFiles {
		loaderOpts = append(loaderOpts, ingestion.WithMaxFiles(len(files)))
	}
	loader, err := ingestion.NewLoader(&ingestion.PlainTextExtractor{}, loaderOpts...)
	if err != nil {
		panic(err)
	}

	docs, failures, err := loader.Load(files)
	if err != nil {
		panic(err)
	}
	for _, failure := range failures {
		slog.Warn("skipping file", "file", failure.Filename, "err", failure.Err)
	}

	report, err := pipeline.Ingest(context.Background(), docs, &ingestion.IngestOptions{
		Replace: *replace,
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Seeded %d documents: %d chunks ingested, %d skipped\n",
		report.Documents, report.ChunksIngested, report.ChunksSkipped)
	for _, failure := range report.Failed {
		slog.Warn("document failed", "file", failure.Filename, "err", failure.Err)
	}
}
