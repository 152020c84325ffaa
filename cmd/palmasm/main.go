// Command palmasm assembles PALM (and other registered architecture)
// source into a raw binary image, with an optional hex listing.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dbcorti/palmasm/arch"
	_ "github.com/dbcorti/palmasm/arch/common"
	_ "github.com/dbcorti/palmasm/arch/palm"
	"github.com/dbcorti/palmasm/asmctx"
	"github.com/dbcorti/palmasm/config"
	"github.com/dbcorti/palmasm/driver"
	"github.com/dbcorti/palmasm/internal/diag"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		archName    = flag.String("arch", "", "Architecture to assemble for (default: from config, else ibm5100)")
		listingPath = flag.String("listing", "", "Write a hex listing to this path")
		configPath  = flag.String("config", "", "Path to a palmasm config.toml (default: platform config dir)")
		outPath     = flag.String("out", "", "Binary output path (default: <input>.bin, or stdout if input is stdin)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("palmasm %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	resolvedArch := *archName
	if resolvedArch == "" {
		resolvedArch = cfg.Assembler.DefaultArch
	}
	if resolvedArch == "" {
		resolvedArch = "ibm5100"
	}

	entry, ok := arch.Lookup(resolvedArch)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: %v (known: %v)\n", arch.ErrUnknown(resolvedArch), arch.Names())
		os.Exit(1)
	}

	var inPath string
	var src io.Reader
	if flag.NArg() == 0 {
		src = os.Stdin
		inPath = "stdin"
	} else {
		inPath = flag.Arg(0)
		f, err := os.Open(inPath) // #nosec G304 -- user-specified source path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		src = f
	}

	if *verboseMode {
		fmt.Printf("Assembling %s for architecture %s\n", inPath, resolvedArch)
	}

	ctx := asmctx.New(entry.Name, entry.Codegen(), entry.EncodeStr)
	ctx.Sink = diag.NewStdSink()

	var out io.Writer
	var outFile *os.File
	binPath := *outPath
	if binPath == "" {
		binPath = cfg.Output.BinaryPath
	}
	if binPath == "" && inPath != "stdin" {
		binPath = inPath + ".bin"
	}
	if binPath == "" {
		out = os.Stdout
	} else {
		outFile, err = os.Create(binPath) // #nosec G304 -- user-specified output path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer outFile.Close()
		out = outFile
	}

	var listing io.Writer
	var listingFile *os.File
	listPath := *listingPath
	if listPath == "" {
		listPath = cfg.Output.ListingPath
	}
	if listPath != "" {
		listingFile, err = os.Create(listPath) // #nosec G304 -- user-specified listing path
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer listingFile.Close()
		listing = listingFile
	}

	maxPasses := cfg.Assembler.MaxPasses

	if err := driver.Assemble(ctx, maxPasses, src, out, listing); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Println("Assembly complete")
		if binPath != "" {
			fmt.Printf("Wrote binary: %s\n", binPath)
		}
		if listPath != "" {
			fmt.Printf("Wrote listing: %s\n", listPath)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
