/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command comprs is a thin demonstration binary for the BWT/MTF/PPM
// compression pipeline: it reads stdin and writes stdout, compressing by
// default or decompressing with -d. Command-line parsing, checksums and
// statistics printing are explicitly out of core scope (SPEC_FULL.md
// Sec.6.4); this binary exists only to exercise the library end to end.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/arnegard/comprs/internal"
	"github.com/arnegard/comprs/pipeline"
	"github.com/spf13/pflag"
)

func main() {
	decompress := pflag.BoolP("decompress", "d", false, "Decompress stdin instead of compressing it.")
	verbose := pflag.BoolP("verbose", "v", false, "Print a byte histogram of the input to stderr.")
	help := pflag.Bool("help", false, "Display help text.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - BWT/MTF/PPM lossless compressor\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] < input > output\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\n")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	data, err := io.ReadAll(os.Stdin)

	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading stdin: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		printHistogram(data)
	}

	codec := pipeline.NewCodec()
	ctx := context.Background()
	var out []byte

	if *decompress {
		out, err = codec.Decode(ctx, data)
	} else {
		out, err = codec.Encode(ctx, data)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if _, err := os.Stdout.Write(out); err != nil {
		fmt.Fprintf(os.Stderr, "error writing stdout: %v\n", err)
		os.Exit(1)
	}
}

func printHistogram(data []byte) {
	freqs := make([]int, 256)
	internal.ComputeHistogram(data, freqs, false)

	for b, f := range freqs {
		if f > 0 {
			fmt.Fprintf(os.Stderr, "%3d: %d\n", b, f)
		}
	}
}
