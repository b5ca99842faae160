// ABOUTME: Tests for sync commands
// ABOUTME: Verifies Charm sync command structure and the wipe safety prompt

package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestNewSyncCmd(t *testing.T) {
	cmd := NewSyncCmd()

	if cmd.Use != "sync" {
		t.Errorf("Use = %q, want %q", cmd.Use, "sync")
	}

	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}

	if !strings.Contains(cmd.Long, "VECTOR_BACKEND=charm") {
		t.Error("Long description should say which backend it applies to")
	}
}

func TestSyncCmd_Subcommands(t *testing.T) {
	cmd := NewSyncCmd()

	for _, name := range []string{"status", "now", "wipe"} {
		t.Run(name, func(t *testing.T) {
			sub := findSubcommand(cmd, name)
			if sub == nil {
				t.Fatalf("Subcommand %q not found", name)
			}
			if sub.Short == "" {
				t.Errorf("%s Short description should not be empty", name)
			}
			if sub.RunE == nil {
				t.Errorf("%s RunE should be set", name)
			}
		})
	}
}

func TestSyncWipe_RequiresConfirm(t *testing.T) {
	cmd := NewSyncCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"wipe"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("wipe without --confirm should not fail: %v", err)
	}
	if !strings.Contains(output.String(), "--confirm") {
		t.Errorf("output should ask for --confirm, got %q", output.String())
	}
}

func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, sub := range cmd.Commands() {
		if sub.Use == name {
			return sub
		}
	}
	return nil
}
