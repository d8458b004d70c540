// Command render turns a profile JSON file into resume or portfolio HTML,
// and optionally a resume PDF, without a database or auth provider.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"ai-folio/internal/composer"
	"ai-folio/internal/domain"
	"ai-folio/internal/model"
	"ai-folio/internal/render"
	"ai-folio/internal/usecase"
	infra "ai-folio/pkg/infrastructure"
)

func main() {
	in := flag.String("in", "profile.json", "profile JSON file")
	kind := flag.String("kind", string(domain.KindResume), "resume or portfolio")
	tpl := flag.String("template", "", "layout id; defaults to the profile's choice")
	out := flag.String("out", "", "HTML output file; stdout when empty")
	pdf := flag.String("pdf", "", "also export the resume to this PDF file")
	chrome := flag.String("chrome", os.Getenv("CHROME_PATH"), "Chrome executable for -pdf")
	flag.Parse()

	if err := run(*in, domain.Kind(*kind), *tpl, *out, *pdf, *chrome); err != nil {
		log.Fatalf("render: %v", err)
	}
}

func run(in string, kind domain.Kind, templateID, out, pdfOut, chrome string) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown kind %q", kind)
	}
	b, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	if err := model.ValidateJSON(b); err != nil {
		return err
	}
	p, err := model.FromRecordData(b)
	if err != nil {
		return err
	}

	r, err := render.New()
	if err != nil {
		return err
	}
	var html string
	if kind == domain.KindPortfolio {
		if templateID == "" {
			templateID = p.PortfolioTemplate
		}
		html, err = r.Portfolio(composer.Portfolio(p), templateID)
	} else {
		if templateID == "" {
			templateID = p.ResumeTemplate
		}
		html, err = r.Resume(composer.Resume(p), templateID)
	}
	if err != nil {
		return err
	}

	if out == "" {
		fmt.Print(html)
	} else if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return err
	} else {
		log.Printf("wrote %s", out)
	}

	if pdfOut == "" {
		return nil
	}
	if kind != domain.KindResume {
		return fmt.Errorf("pdf export is only available for resumes")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()
	doc, err := infra.NewChromedpExporter(chrome, 60*time.Second).Export(ctx, html)
	if err != nil {
		return err
	}
	if err := os.WriteFile(pdfOut, doc, 0o644); err != nil {
		return err
	}
	log.Printf("wrote %s (%s)", pdfOut, usecase.ExportFilename(p))
	return nil
}
