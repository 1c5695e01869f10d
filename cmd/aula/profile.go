package main

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"aula/internal/adapters/storage"
	"aula/internal/domain/profile"
)

// profileCmd inspects and resets stored browser profiles
func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect or reset a browser profile's preferences",
	}
	cmd.AddCommand(profileShowCmd(), profileResetCmd())
	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <profile-id>",
		Short: "Show the stored preferences of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProfileID(args[0])
			if err != nil {
				return err
			}
			b, err := openBackend(cmd.Context(), cfg, storage.TimingOptions{})
			if err != nil {
				return err
			}
			defer b.close()

			kv, err := b.store.Load(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("load profile: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(kv) == 0 {
				fmt.Fprintf(out, "Profile %s has no stored preferences\n", id)
				return nil
			}
			keys := make([]string, 0, len(kv))
			for k := range kv {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(out, "Profile %s:\n", id)
			for _, k := range keys {
				fmt.Fprintf(out, "  %-16s %s\n", k, kv[k])
			}

			p := profile.Load(mapKV(kv))
			if p.SignedIn {
				fmt.Fprintf(out, "Signed in as %s\n", p.Role)
			} else {
				fmt.Fprintln(out, "Not signed in")
			}
			return nil
		},
	}
}

func profileResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <profile-id>",
		Short: "Delete every stored preference of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProfileID(args[0])
			if err != nil {
				return err
			}
			b, err := openBackend(cmd.Context(), cfg, storage.TimingOptions{})
			if err != nil {
				return err
			}
			defer b.close()

			if err := b.store.Clear(cmd.Context(), id); err != nil {
				return fmt.Errorf("reset profile: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile %s reset\n", id)
			return nil
		},
	}
}

func parseProfileID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid profile id %q: %w", s, err)
	}
	return id.String(), nil
}

// mapKV is a read-only profile.KeyValue over a loaded preference map.
type mapKV map[string]string

func (m mapKV) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m mapKV) Set(string, string) {}

func (m mapKV) Remove(string) {}
