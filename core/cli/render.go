package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/emenda-labs/libstub/core/changespec"
	"github.com/emenda-labs/libstub/core/config"
	"github.com/emenda-labs/libstub/core/linker"
	"github.com/emenda-labs/libstub/core/stub"
)

// WriteResults renders dump results in the given format. In text form,
// resolution failures go to errw and every other line to w.
func WriteResults(w, errw io.Writer, results []linker.Result, format string) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	default:
		for _, res := range results {
			writeResultText(w, errw, res)
		}
		return nil
	}
}

func writeResultText(w, errw io.Writer, res linker.Result) {
	fmt.Fprintf(w, "---- %s\n", res.Name)
	if !res.Supported {
		fmt.Fprintln(w, "isSupported = false")
	}
	for _, r := range res.Resolutions {
		if r.Err != nil {
			fmt.Fprintf(errw, "Failed to parse: %s\n", r.Err)
			continue
		}
		WriteInterface(w, r.Interface)
	}
	fmt.Fprintln(w)
}

// WriteInterface prints a resolved interface as indented key/value lines.
func WriteInterface(w io.Writer, iface *stub.Interface) {
	fmt.Fprintf(w, "install-name: %s\n", iface.GetInstallName())
	fmt.Fprintf(w, "architecture: %s\n", iface.Architecture)
	fmt.Fprintf(w, "platform: %s\n", iface.GetPlatform())
	fmt.Fprintf(w, "current-version: %s\n", iface.GetCurrentVersion())
	fmt.Fprintf(w, "compatibility-version: %s\n", iface.GetCompatibilityVersion())
	fmt.Fprintf(w, "swift-version: %d\n", iface.GetSwiftVersion())
	fmt.Fprintf(w, "application-extension-safe: %t\n", iface.IsApplicationExtensionSafe())
	fmt.Fprintf(w, "two-level-namespace: %t\n", iface.HasTwoLevelNamespace())
	if p := iface.GetParentFrameworkName(); p != "" {
		fmt.Fprintf(w, "parent-framework: %s\n", p)
	}
	writeList(w, "reexported-libraries", iface.ReexportedLibraries)
	writeList(w, "allowable-clients", iface.AllowableClients)
	writeSymbols(w, "exports", iface.GetExports())
	writeSymbols(w, "undefineds", iface.GetUndefineds())
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  %s\n", item)
	}
}

func writeSymbols(w io.Writer, title string, syms []stub.Symbol) {
	if len(syms) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, s := range syms {
		if s.WeakDefined {
			fmt.Fprintf(w, "  %s (weak)\n", s.Name)
		} else {
			fmt.Fprintf(w, "  %s\n", s.Name)
		}
	}
}

// WriteChangeSpec prints one line per change, breaking changes marked "!".
func WriteChangeSpec(w io.Writer, cs changespec.ChangeSpec) {
	fmt.Fprintf(w, "arch: %s\n", cs.Arch)
	if len(cs.Changes) == 0 {
		fmt.Fprintln(w, "no changes")
		return
	}
	for _, c := range cs.Changes {
		mark := " "
		if c.Breaking() {
			mark = "!"
		}
		switch {
		case c.Symbol != "" && c.OldValue != "":
			fmt.Fprintf(w, "%s %s %s: %s -> %s\n", mark, c.Kind, c.Symbol, c.OldValue, c.NewValue)
		case c.Symbol != "":
			fmt.Fprintf(w, "%s %s %s\n", mark, c.Kind, c.Symbol)
		case c.Direction != "":
			fmt.Fprintf(w, "%s %s: %s -> %s (%s)\n", mark, c.Kind, c.OldValue, c.NewValue, c.Direction)
		default:
			fmt.Fprintf(w, "%s %s: %s -> %s\n", mark, c.Kind, c.OldValue, c.NewValue)
		}
	}
	fmt.Fprintf(w, "%d change(s), %d breaking\n", len(cs.Changes), len(cs.Breaking()))
}
