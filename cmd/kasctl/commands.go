package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Brownie44l1/kasgo/internal/api/dto"
	"github.com/Brownie44l1/kasgo/internal/auth"
	"github.com/Brownie44l1/kasgo/internal/db"
	"github.com/Brownie44l1/kasgo/internal/repository"
	"github.com/Brownie44l1/kasgo/internal/service"
	"github.com/spf13/cobra"
)

// ==============================================
// KIP-7
// ==============================================

func kip7Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kip7",
		Short: "Fungible token contracts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List deployed KIP-7 contracts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svcs, _, _, err := loadServices(cmd)
			if err != nil {
				return err
			}
			query, err := listQuery(cmd)
			if err != nil {
				return err
			}
			if status, _ := cmd.Flags().GetString("status"); status != "" {
				query[dto.OptStatus] = status
			}
			fut, err := svcs.KIP7.GetContractList(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printResult(cmd, fut)
		},
	}
	addListFlags(list)
	list.Flags().String("status", "", "Only contracts in this status (deployed, deploying, failed, ...)")

	balance := &cobra.Command{
		Use:   "balance <contract-address-or-alias> <owner>",
		Short: "Show an account's token balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, _, _, err := loadServices(cmd)
			if err != nil {
				return err
			}
			fut, err := svcs.KIP7.BalanceOf(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(cmd, fut)
		},
	}

	cmd.AddCommand(list, balance)
	return cmd
}

// ==============================================
// NODE
// ==============================================

func nodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "JSON-RPC node proxy",
	}

	call := &cobra.Command{
		Use:   "call <method> [params-json]",
		Short: "Send one JSON-RPC request, e.g. call klay_getBalance '[\"0x...\",\"latest\"]'",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params []any
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &params); err != nil {
					return fmt.Errorf("params must be a JSON array: %w", err)
				}
			}
			id, err := cmd.Flags().GetInt("id")
			if err != nil {
				return err
			}

			svcs, _, _, err := loadServices(cmd)
			if err != nil {
				return err
			}
			fut, err := svcs.Node.CallNodeAPI(cmd.Context(), args[0], params, service.WithRPCID(id))
			if err != nil {
				return err
			}

			res, err := fut.Await(cmd.Context())
			if err != nil {
				return err
			}
			if res.Data != nil {
				return printJSON(cmd, res.Data)
			}
			return printJSON(cmd, res.Remote)
		},
	}
	call.Flags().Int("id", 1, "JSON-RPC request id")

	cmd.AddCommand(call)
	return cmd
}

// ==============================================
// TOKEN HISTORY
// ==============================================

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Token transfer history",
	}

	account := &cobra.Command{
		Use:   "account <address>",
		Short: "List an account's transfers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, _, _, err := loadServices(cmd)
			if err != nil {
				return err
			}
			query, err := historyQuery(cmd)
			if err != nil {
				return err
			}
			defer applyTimeout(cmd)()

			if all, _ := cmd.Flags().GetBool("all"); all {
				return svcs.History.WalkTransferHistoryByAccount(cmd.Context(), args[0], query, func(page *dto.TransferHistoryPage) error {
					for _, item := range page.Items {
						if err := printJSON(cmd, item); err != nil {
							return err
						}
					}
					return nil
				})
			}

			fut, err := svcs.History.GetTransferHistoryByAccount(cmd.Context(), args[0], query)
			if err != nil {
				return err
			}
			return printResult(cmd, fut)
		},
	}
	addHistoryFlags(account)
	account.Flags().Bool("all", false, "Follow cursors and print every transfer")

	archive := &cobra.Command{
		Use:   "archive <address>",
		Short: "Copy an account's transfers into the archive database (DB_URL)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, cfg, log, err := loadServices(cmd)
			if err != nil {
				return err
			}
			if !cfg.ArchiveEnabled() {
				return fmt.Errorf("%w: set DB_URL", service.ErrNoStore)
			}
			query, err := historyQuery(cmd)
			if err != nil {
				return err
			}
			defer applyTimeout(cmd)()

			pool, err := db.NewPool(cmd.Context(), cfg.DBUrl, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := repository.NewTransferRepository(pool)
			if err := repo.EnsureSchema(cmd.Context()); err != nil {
				return err
			}

			stats, err := service.NewArchiver(svcs.History, repo, log).ArchiveAccountTransfers(cmd.Context(), args[0], query)
			if stats != nil {
				if perr := printJSON(cmd, stats); perr != nil {
					return perr
				}
			}
			return err
		},
	}
	addHistoryFlags(archive)

	cmd.AddCommand(account, archive)
	return cmd
}

// ==============================================
// GATEWAY TOKENS
// ==============================================

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Gateway bearer tokens",
	}

	issue := &cobra.Command{
		Use:   "issue <subject>",
		Short: "Issue a gateway token signed with GATEWAY_JWT_SECRET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			scopes, err := cmd.Flags().GetStringSlice("scope")
			if err != nil {
				return err
			}
			ttl, err := cmd.Flags().GetDuration("ttl")
			if err != nil {
				return err
			}

			token, expiresIn, err := auth.GenerateJWT(args[0], scopes, cfg.GatewayJWTSecret, ttl)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"token":      token,
				"expires_in": expiresIn,
			})
		},
	}
	issue.Flags().StringSlice("scope", nil, "Scopes to grant (node:rpc, history:archive); none grants every route")
	issue.Flags().Duration("ttl", auth.TokenExpirationTime, "How long the token stays valid")

	cmd.AddCommand(issue)
	return cmd
}

// ==============================================
// FLAGS
// ==============================================

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int("size", 0, "Page size (1-1000)")
	cmd.Flags().String("cursor", "", "Cursor of the page to fetch")
}

func addHistoryFlags(cmd *cobra.Command) {
	addListFlags(cmd)
	cmd.Flags().StringSlice("kind", nil, "Transfer kinds: klay, ft, nft, mt")
	cmd.Flags().String("range", "", "Block or timestamp range \"from\" or \"from,to\"")
	cmd.Flags().String("ca-filter", "", "Only transfers of this contract")
	cmd.Flags().Bool("exclude-zero-klay", false, "Skip zero-value KLAY transfers")
	cmd.Flags().Duration("timeout", 0, "Give up after this long (0 waits forever)")
}

// listQuery collects the pagination flags that were set.
func listQuery(cmd *cobra.Command) (dto.Object, error) {
	query := dto.Object{}
	if cmd.Flags().Changed("size") {
		size, err := cmd.Flags().GetInt("size")
		if err != nil {
			return nil, err
		}
		query[dto.OptSize] = size
	}
	if cursor, _ := cmd.Flags().GetString("cursor"); cursor != "" {
		query[dto.OptCursor] = cursor
	}
	return query, nil
}

func historyQuery(cmd *cobra.Command) (dto.Object, error) {
	query, err := listQuery(cmd)
	if err != nil {
		return nil, err
	}
	if kinds, _ := cmd.Flags().GetStringSlice("kind"); len(kinds) > 0 {
		query[dto.OptKind] = strings.Join(kinds, ",")
	}
	if r, _ := cmd.Flags().GetString("range"); r != "" {
		query[dto.OptRange] = r
	}
	if ca, _ := cmd.Flags().GetString("ca-filter"); ca != "" {
		query[dto.OptCAFilter] = ca
	}
	if cmd.Flags().Changed("exclude-zero-klay") {
		v, _ := cmd.Flags().GetBool("exclude-zero-klay")
		query[dto.OptExcludeZeroKlay] = v
	}
	return query, nil
}

// applyTimeout bounds the command's context by the --timeout flag. The
// returned func must be called when the command is done.
func applyTimeout(cmd *cobra.Command) context.CancelFunc {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		return func() {}
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	cmd.SetContext(ctx)
	return cancel
}
