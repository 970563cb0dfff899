package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
)

const usage = `Split: vcs split [flags] <secret> <cover1> <cover2>
Stack: vcs stack [flags] <share1> <share2>
       vcs stack [flags] <shares.vcs>
`

type config struct {
	inputs    []string
	outDir    string
	outFile   string
	format    string
	seed      uint64
	seedSet   bool
	threshold uint
	bundle    bool
	stack     bool
	quiet     bool
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "split":
		cfg, err := buildSplitConfig(os.Args[2:])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprint(os.Stderr, usage)
			os.Exit(1)
		}
		if err := runSplit(cfg); err != nil {
			fmt.Fprintln(os.Stderr, "split error:", err)
			os.Exit(1)
		}
	case "stack":
		cfg, err := buildStackConfig(os.Args[2:])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprint(os.Stderr, usage)
			os.Exit(1)
		}
		if err := runStack(cfg); err != nil {
			fmt.Fprintln(os.Stderr, "stack error:", err)
			os.Exit(1)
		}
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func buildSplitConfig(args []string) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	fs.StringVar(&cfg.outDir, "o", "output", "output directory")
	fs.StringVar(&cfg.format, "format", "png", "share image format (png, bmp, qoi)")
	fs.Uint64Var(&cfg.seed, "seed", 0, "random seed (omit to draw one)")
	fs.UintVar(&cfg.threshold, "threshold", defaultThreshold, "secret luma threshold (1-255)")
	fs.BoolVar(&cfg.bundle, "bundle", false, "also write shares.vcs")
	fs.BoolVar(&cfg.stack, "stack", true, "also write the reconstructed overlay")
	fs.BoolVar(&cfg.quiet, "q", false, "no progress output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 3 {
		return nil, errors.New("split needs a secret and two cover images")
	}
	if cfg.threshold < 1 || cfg.threshold > 255 {
		return nil, errors.New("threshold must be between 1 and 255")
	}
	cfg.format = strings.TrimPrefix(strings.ToLower(cfg.format), ".")
	switch cfg.format {
	case "png", "bmp", "qoi":
	default:
		return nil, fmt.Errorf("format %q: %w", cfg.format, ErrUnsupportedFormat)
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.seedSet = true
		}
	})
	cfg.inputs = fs.Args()
	return cfg, nil
}

func buildStackConfig(args []string) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("stack", flag.ContinueOnError)
	fs.StringVar(&cfg.outFile, "o", "reconstructed.png", "output image file")
	fs.BoolVar(&cfg.quiet, "q", false, "no progress output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 && fs.NArg() != 2 {
		return nil, errors.New("stack needs two share images or one .vcs bundle")
	}
	if fs.NArg() == 1 && strings.ToLower(filepath.Ext(fs.Arg(0))) != ".vcs" {
		return nil, errors.New("a single stack input must be a .vcs bundle")
	}
	cfg.inputs = fs.Args()
	return cfg, nil
}

func checkInputs(paths []string) error {
	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing inputs: %s", strings.Join(missing, ", "))
	}
	return nil
}

func runSplit(cfg *config) error {
	if err := checkInputs(cfg.inputs); err != nil {
		return err
	}

	var imgs [3]image.Image
	for i, name := range []string{"secret", "cover1", "cover2"} {
		img, _, err := loadImage(cfg.inputs[i])
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		imgs[i] = img
	}

	seed := cfg.seed
	if !cfg.seedSet {
		var err error
		if seed, err = RandomSeed(); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	shares, err := Split(imgs[0], imgs[1], imgs[2], Options{Seed: seed, Threshold: uint8(cfg.threshold)})
	if err != nil {
		return err
	}

	// Everything is computed before the first file is written.
	var stacked *image.RGBA
	if cfg.stack {
		if stacked, err = Stack(shares.Share1, shares.Share2); err != nil {
			return err
		}
	}
	var bundle []byte
	if cfg.bundle {
		if bundle, err = EncodeBundle(shares); err != nil {
			return err
		}
	}

	out1 := filepath.Join(cfg.outDir, "share1."+cfg.format)
	out2 := filepath.Join(cfg.outDir, "share2."+cfg.format)
	files := []outputFile{imageOutput(shares.Share1, out1), imageOutput(shares.Share2, out2)}
	outR := filepath.Join(cfg.outDir, "reconstructed."+cfg.format)
	if stacked != nil {
		files = append(files, imageOutput(stacked, outR))
	}
	outB := filepath.Join(cfg.outDir, "shares.vcs")
	if bundle != nil {
		files = append(files, bytesOutput(bundle, outB))
	}

	if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
		return err
	}
	if err := writeOutputs(files); err != nil {
		return err
	}

	if !cfg.quiet {
		fmt.Printf("Split %s (%dx%d, seed=%d) → %s, %s\n", cfg.inputs[0], shares.Width, shares.Height, seed, out1, out2)
		if stacked != nil {
			fmt.Printf("Stacked → %s\n", outR)
		}
		if bundle != nil {
			fmt.Printf("Bundled → %s (%d bytes)\n", outB, len(bundle))
		}
	}
	return nil
}

func runStack(cfg *config) error {
	if err := checkInputs(cfg.inputs); err != nil {
		return err
	}

	var a, b image.Image
	if len(cfg.inputs) == 1 {
		data, err := os.ReadFile(cfg.inputs[0])
		if err != nil {
			return err
		}
		shares, err := DecodeBundle(data)
		if err != nil {
			return err
		}
		a, b = shares.Share1, shares.Share2
	} else {
		var err error
		if a, _, err = loadImage(cfg.inputs[0]); err != nil {
			return fmt.Errorf("load share1: %w", err)
		}
		if b, _, err = loadImage(cfg.inputs[1]); err != nil {
			return fmt.Errorf("load share2: %w", err)
		}
	}

	stacked, err := Stack(a, b)
	if err != nil {
		return err
	}
	if err := saveImage(stacked, cfg.outFile); err != nil {
		return err
	}
	if !cfg.quiet {
		fmt.Printf("Stacked %s → %s\n", strings.Join(cfg.inputs, " + "), cfg.outFile)
	}
	return nil
}
