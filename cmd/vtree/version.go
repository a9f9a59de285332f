package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// buildInfo describes the running binary. Fields set by -ldflags win over
// what the Go toolchain embedded.
type buildInfo struct {
	Version   string            `json:"version"`
	Commit    string            `json:"commit"`
	Date      string            `json:"date"`
	Modified  bool              `json:"modified,omitempty"`
	Module    string            `json:"module,omitempty"`
	GoVersion string            `json:"goVersion"`
	Platform  string            `json:"platform"`
	Deps      map[string]string `json:"deps,omitempty"`
}

// reportedDeps are the dependencies whose versions affect rendering,
// metrics and snapshot output.
var reportedDeps = []string{
	"go.opentelemetry.io/otel",
	"github.com/prometheus/client_golang",
	"github.com/aws/aws-sdk-go-v2/service/s3",
	"github.com/gorilla/websocket",
	"gopkg.in/yaml.v3",
}

func readBuildInfo(read func() (*debug.BuildInfo, bool)) buildInfo {
	info := buildInfo{
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	bi, ok := read()
	if !ok {
		return info
	}

	info.Module = bi.Main.Path
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "none" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	for _, dep := range bi.Deps {
		for _, want := range reportedDeps {
			if dep.Path == want {
				if info.Deps == nil {
					info.Deps = make(map[string]string)
				}
				info.Deps[dep.Path] = dep.Version
			}
		}
	}
	return info
}

func (b buildInfo) write(w io.Writer) {
	commit := b.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if b.Modified {
		commit += " (modified)"
	}

	fmt.Fprintf(w, "  Version:    %s\n", b.Version)
	if b.Module != "" {
		fmt.Fprintf(w, "  Module:     %s\n", b.Module)
	}
	fmt.Fprintf(w, "  Commit:     %s\n", commit)
	fmt.Fprintf(w, "  Built:      %s\n", b.Date)
	fmt.Fprintf(w, "  Go version: %s\n", b.GoVersion)
	fmt.Fprintf(w, "  OS/Arch:    %s\n", b.Platform)
	if len(b.Deps) > 0 {
		fmt.Fprintln(w, "  Stack:")
		for _, path := range reportedDeps {
			if v, ok := b.Deps[path]; ok {
				fmt.Fprintf(w, "    %-42s %s\n", strings.TrimPrefix(path, "github.com/"), v)
			}
		}
	}
}

func versionCmd() *cobra.Command {
	var (
		short  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the vtree version with the commit and build time, taken from
-ldflags or, when absent, from the build information embedded by the Go
toolchain. The versions of the tracing, metrics, storage and websocket
modules the binary was built with are listed too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := readBuildInfo(debug.ReadBuildInfo)
			w := cmd.OutOrStdout()
			switch {
			case short:
				fmt.Fprintln(w, info.Version)
			case asJSON:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			default:
				fmt.Fprint(w, banner)
				fmt.Fprintln(w)
				info.write(w)
				fmt.Fprintln(w)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}
