package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"countersign/internal/config"
	"countersign/internal/infrastructure"
	"countersign/internal/intake"
	"countersign/pkg/pipeline"
)

func main() {
	stats := flag.Bool("stats", false, "print tracker statistics and exit")
	fetch := flag.Bool("fetch", false, "treat arguments as document IDs and fetch their archived copies")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: countersign [flags] document.pdf...\n")
		fmt.Fprintf(flag.CommandLine.Output(), "       countersign -fetch document-id...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		log.Fatal("init failed: ", err)
	}
	if err := infra.Start(); err != nil {
		log.Fatal("start failed: ", err)
	}
	infra.Lifecycle.WaitForStartup()
	defer infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *stats {
		printStats(ctx, infra)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	failed := 0
	if *fetch {
		if infra.Archive == nil {
			log.Fatal("archiving is not configured")
		}
		for _, documentID := range flag.Args() {
			if !retrieve(ctx, infra, documentID) {
				failed++
			}
		}
	} else {
		rt := infra.Intake()
		for _, path := range flag.Args() {
			if !submit(ctx, rt, path) {
				failed++
			}
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// retrieve writes the archived copy of a sent document to the working
// directory as <document-id>.pdf.
func retrieve(ctx context.Context, infra *infrastructure.Infrastructure, documentID string) bool {
	ok, err := infra.Archive.Exists(ctx, documentID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", documentID, err)
		return false
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: no archived copy\n", documentID)
		return false
	}

	data, err := infra.Archive.Retrieve(ctx, documentID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", documentID, err)
		return false
	}

	name := documentID + ".pdf"
	if err := os.WriteFile(name, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", documentID, err)
		return false
	}

	fmt.Printf("%s: wrote %s (%d bytes)\n", documentID, name, len(data))
	return true
}

func submit(ctx context.Context, rt *intake.Runtime, path string) bool {
	input, err := intake.NewInput(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return false
	}

	s, outcome := rt.Run(ctx, input)

	switch outcome.Status {
	case pipeline.StatusDone:
		if s.Send.Success {
			fmt.Printf("%s: sent as %s to %d recipients\n", input.Name, s.DocumentID, len(s.Recipients))
			return true
		}
		fmt.Fprintf(os.Stderr, "%s: not sent: %s\n", input.Name, firstFailure(s))
		return false
	case pipeline.StatusAborted:
		fmt.Fprintf(os.Stderr, "%s: aborted at %s\n", input.Name, outcome.Stage)
		for _, v := range s.Violations {
			fmt.Fprintf(os.Stderr, "  %s\n", v)
		}
		if !s.AddFields.Success && s.AddFields.Reason != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", s.AddFields.Reason)
		}
		return false
	default:
		fmt.Fprintf(os.Stderr, "%s: cancelled before %s\n", input.Name, outcome.Stage)
		return false
	}
}

// firstFailure reports the earliest stage result that stopped the
// document from going out; later stages only record skips caused by it.
func firstFailure(s *intake.State) string {
	for _, result := range []pipeline.StageResult{s.Upload, s.AssignFields, s.Send} {
		if !result.Success {
			return result.Reason
		}
	}
	return "unknown failure"
}

func printStats(ctx context.Context, infra *infrastructure.Infrastructure) {
	stats, err := infra.Tracker.Stats(ctx)
	if err != nil {
		log.Fatal("stats failed: ", err)
	}

	fmt.Printf("tracked: %d\npending: %d\ncompleted: %d\n", stats.Total, stats.Pending, stats.Completed)
}
