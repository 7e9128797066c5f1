package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/haukened/safe-block/internal/safeblock/common/utils"
	"github.com/haukened/safe-block/internal/safeblock/domain"
	"github.com/haukened/safe-block/internal/safeblock/gateways/enforcement"
)

// errUsage marks bad flags or missing arguments.
var errUsage = errors.New("usage")

func passwordFlag(fs *flag.FlagSet) {
	fs.String("password", "", "Password (read from the first line of stdin when omitted)")
}

func jsonFlag(fs *flag.FlagSet) {
	fs.Bool("json", false, "Print JSON instead of text")
}

func boolFlag(fs *flag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Value.String() == "true"
}

// readPassword prefers -password and falls back to one line of stdin.
func readPassword(fs *flag.FlagSet, in io.Reader) (string, error) {
	if f := fs.Lookup("password"); f != nil && f.Value.String() != "" {
		return f.Value.String(), nil
	}
	sc := bufio.NewScanner(in)
	if sc.Scan() {
		return strings.TrimRight(sc.Text(), "\r"), nil
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return "", errors.New("password required: pass -password or pipe it on stdin")
}

func newStatusCommand() command {
	return command{
		name:        "status",
		description: "Show lifecycle state, settings and installed rules",
		run: func(_ *flag.FlagSet, _ []string, app *Application, s *streams) error {
			lc := app.Lifecycle
			snap := lc.Snapshot()
			w := s.stdout

			fmt.Fprintf(w, "State:           %s\n", lc.State())
			fmt.Fprintf(w, "Setup complete:  %t\n", snap.SetupComplete)
			if snap.BlockAdultSites {
				fmt.Fprintf(w, "Adult category:  on (%d sites)\n", app.Matcher.Reference().Len())
			} else {
				fmt.Fprintln(w, "Adult category:  off")
			}
			fmt.Fprintf(w, "Custom URLs:     %d\n", len(snap.CustomBlockedURLs))
			for _, key := range snap.CustomBlockedURLs {
				fmt.Fprintf(w, "  - %s\n", key)
			}
			if st := app.Store.Stats(); st.Present {
				updated := time.Unix(st.UpdatedUnix, 0).UTC().Format(time.RFC3339)
				fmt.Fprintf(w, "Store version:   %d (updated %s)\n", st.Version, updated)
			} else {
				fmt.Fprintln(w, "Store version:   none")
			}
			fmt.Fprintf(w, "Installed rules: %d\n", len(app.Enforcer.Rules()))
			return nil
		},
	}
}

func newSetupCommand() command {
	return command{
		name:        "setup",
		usage:       "[-password pw] [url...]",
		description: "Set the password on first run, optionally block URLs, and lock",
		configure:   passwordFlag,
		run: func(fs *flag.FlagSet, args []string, app *Application, s *streams) error {
			// Reject bad URLs before the password is committed; setup only runs once.
			for _, raw := range args {
				if utils.CanonicalURL(raw) == "" {
					return domain.NewSettingsError(domain.KindEmptyCanonicalKey, raw, nil)
				}
			}
			pw, err := readPassword(fs, s.stdin)
			if err != nil {
				return err
			}
			lc := app.Lifecycle
			if err := lc.SetPassword(pw); err != nil {
				return err
			}
			for _, raw := range args {
				if _, err := lc.AddCustomURL(raw); err != nil {
					_ = lc.Lock()
					return err
				}
			}
			if err := lc.CommitAndLock(); err != nil {
				return err
			}
			fmt.Fprintf(s.stdout, "Setup complete. %d custom URL(s) blocked.\n", len(lc.Snapshot().CustomBlockedURLs))
			return nil
		},
	}
}

func newAddCommand() command {
	return command{
		name:        "add",
		usage:       "[-password pw] url...",
		description: "Unlock, add URLs to the custom blocklist, save and lock",
		configure:   passwordFlag,
		run: func(fs *flag.FlagSet, args []string, app *Application, s *streams) error {
			return editCustomList(fs, args, app, s, app.Lifecycle.AddCustomURL, "blocked", "already blocked")
		},
	}
}

func newRemoveCommand() command {
	return command{
		name:        "remove",
		usage:       "[-password pw] url...",
		description: "Unlock, remove URLs from the custom blocklist, save and lock",
		configure:   passwordFlag,
		run: func(fs *flag.FlagSet, args []string, app *Application, s *streams) error {
			return editCustomList(fs, args, app, s, app.Lifecycle.RemoveCustomURL, "unblocked", "not in list")
		},
	}
}

// editCustomList runs one unlock → edit → commit cycle. Any edit error locks
// again without saving.
func editCustomList(fs *flag.FlagSet, args []string, app *Application, s *streams,
	edit func(string) (bool, error), changedMsg, unchangedMsg string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: at least one url", errUsage)
	}
	pw, err := readPassword(fs, s.stdin)
	if err != nil {
		return err
	}
	lc := app.Lifecycle
	if err := lc.Unlock(pw); err != nil {
		return err
	}
	for _, raw := range args {
		changed, err := edit(raw)
		if err != nil {
			_ = lc.Lock()
			return err
		}
		msg := unchangedMsg
		if changed {
			msg = changedMsg
		}
		fmt.Fprintf(s.stdout, "%s: %s\n", utils.CanonicalURL(raw), msg)
	}
	return lc.CommitAndLock()
}

// decisionView is the JSON shape printed by check.
type decisionView struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Blocked  bool   `json:"blocked"`
	Category string `json:"category"`
	Rule     int    `json:"rule,omitempty"`
	Apex     string `json:"apex,omitempty"`
}

func newCheckCommand() command {
	return command{
		name:        "check",
		usage:       "[-json] url...",
		description: "Report whether URLs are blocked by the committed settings",
		configure:   jsonFlag,
		run: func(fs *flag.FlagSet, args []string, app *Application, s *streams) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: at least one url", errUsage)
			}
			views := make([]decisionView, 0, len(args))
			for _, raw := range args {
				d := app.Matcher.Decide(raw)
				views = append(views, decisionView{
					URL:      raw,
					Key:      d.Key,
					Blocked:  d.Blocked,
					Category: d.Category.String(),
					Rule:     d.MatchedRule,
					Apex:     d.Apex,
				})
			}
			if boolFlag(fs, "json") {
				return writeJSON(s.stdout, views)
			}
			for _, v := range views {
				if v.Blocked {
					fmt.Fprintf(s.stdout, "BLOCKED  %s (%s, rule %d)\n", v.Key, v.Category, v.Rule)
				} else {
					fmt.Fprintf(s.stdout, "allowed  %s\n", displayKey(v))
				}
			}
			return nil
		},
	}
}

func displayKey(v decisionView) string {
	if v.Key == "" {
		return fmt.Sprintf("%q (empty key)", v.URL)
	}
	return v.Key
}

func newRulesCommand() command {
	return command{
		name:        "rules",
		usage:       "[-json]",
		description: "List installed enforcement rules (JSON is declarativeNetRequest format)",
		configure:   jsonFlag,
		run: func(fs *flag.FlagSet, _ []string, app *Application, s *streams) error {
			rules := app.Enforcer.Rules()
			if boolFlag(fs, "json") {
				out := make([]enforcement.DNRRule, 0, len(rules))
				for _, r := range rules {
					d, err := enforcement.Render(r)
					if err != nil {
						return err
					}
					out = append(out, d)
				}
				return writeJSON(s.stdout, out)
			}
			for _, r := range rules {
				fmt.Fprintf(s.stdout, "%-8d %-6s %-7s %s\n", r.ID, r.Action, r.Category(), r.Pattern)
			}
			return nil
		},
	}
}

func newResetCommand() command {
	return command{
		name:        "reset",
		usage:       "[-password pw]",
		description: "Discard all settings and return to first-run state",
		configure:   passwordFlag,
		run: func(fs *flag.FlagSet, _ []string, app *Application, s *streams) error {
			lc := app.Lifecycle
			if lc.State() == domain.StateLocked {
				pw, err := readPassword(fs, s.stdin)
				if err != nil {
					return err
				}
				if err := lc.Unlock(pw); err != nil {
					return err
				}
			}
			if err := lc.Reset(); err != nil {
				return err
			}
			fmt.Fprintln(s.stdout, "Settings reset. Run setup to choose a new password.")
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
