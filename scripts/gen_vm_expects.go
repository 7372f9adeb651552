package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"text/template"
	"time"

	"golang.org/x/sync/errgroup"
)

var (
	srcName = "vm_test.go"
	in      io.ReadCloser  = os.Stdin
	out     io.WriteCloser = os.Stdout
)

func parseFlags() {
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		srcName = args[0]
		f, err := os.Open(srcName)
		if err != nil {
			log.Fatalf("failed to open %v: %v", srcName, err)
		}
		in = f
	}

	if len(args) > 1 {
		f, err := os.Create(args[1])
		if err != nil {
			log.Fatalf("failed to create %v: %v", args[1], err)
		}
		out = f
	}
}

// Generates vm_expects_test.go: a curried form of every vmTestCase builder
// method that takes arguments, for use with vmTestCase.apply.
func main() {
	parseFlags()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	// generated code is piped through goimports
	pr, pw := io.Pipe()
	eg.Go(func() error {
		defer out.Close()
		cmd := exec.CommandContext(ctx, "goimports")
		cmd.Stdin = pr
		cmd.Stdout = out
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			pr.CloseWithError(err)
			return fmt.Errorf("goimports failed: %w", err)
		}
		return nil
	})

	eg.Go(func() (rerr error) {
		defer func() {
			if cerr := in.Close(); rerr == nil {
				rerr = cerr
			}
			pw.CloseWithError(rerr)
		}()
		return generate(ctx, pw)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

var builderMethod = regexp.MustCompile(`^func \(vmt vmTestCase\) (expect|with)(\w+)\((.+?)\) vmTestCase`)

type builder struct {
	Base, What string
	Params     string
	Args       []string
}

var curried = template.Must(template.New("curried").Parse(`
func {{ .Base }}VM{{ .What }}({{ .Params }}) func(vmTestCase) vmTestCase {
	return func(vmt vmTestCase) vmTestCase {
		return vmt.{{ .Base }}{{ .What }}({{ range $i, $arg := .Args }}{{ if $i }}, {{ end }}{{ $arg }}{{ end }})
	}
}
`))

func parseBuilder(line []byte) (b builder, ok bool) {
	match := builderMethod.FindSubmatch(line)
	if len(match) == 0 {
		return b, false
	}
	b.Base, b.What, b.Params = string(match[1]), string(match[2]), string(match[3])
	for _, param := range strings.Split(b.Params, ",") {
		fields := strings.Fields(param)
		if len(fields) < 2 {
			return b, false
		}
		arg := fields[0]
		if strings.HasPrefix(fields[1], "...") {
			arg += "..."
		}
		b.Args = append(b.Args, arg)
	}
	return b, true
}

func generate(ctx context.Context, w io.Writer) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package main\n\n")
	fmt.Fprintf(&buf, "// @generated from %v\n\n", srcName)
	if args := flag.Args(); len(args) >= 2 {
		fmt.Fprintf(&buf, "//go:generate go run scripts/gen_vm_expects.go -- %v\n", strings.Join(args, " "))
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if b, ok := parseBuilder(sc.Bytes()); ok {
			if err := curried.Execute(&buf, b); err != nil {
				return err
			}
		}
		if _, err := buf.WriteTo(w); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return sc.Err()
}
