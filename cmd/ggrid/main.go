// Copyright 2024 The go-gridchain Authors
// This file is part of go-gridchain.
//
// go-gridchain is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-gridchain is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-gridchain. If not, see <http://www.gnu.org/licenses/>.

// ggrid is the command line host harness around the compute engine. It owns
// what a deployed runtime would own: allocating account storage, attesting
// signer flags from the --key flag and persisting the account store between
// invocations. The engine itself never trusts more than the account list it
// is handed.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/urfave/cli.v1"

	"github.com/gridchain/go-gridchain/common"
	"github.com/gridchain/go-gridchain/core"
	"github.com/gridchain/go-gridchain/core/rawdb"
	"github.com/gridchain/go-gridchain/core/state"
	"github.com/gridchain/go-gridchain/core/types"
	"github.com/gridchain/go-gridchain/crypto"
	"github.com/gridchain/go-gridchain/griddb"
	"github.com/gridchain/go-gridchain/log"
	"github.com/olekukonko/tablewriter"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the account database",
		Value: "ggrid-data",
	}
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "Hex identity signing the instruction",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "Hex identity that will own the new agent",
	}
	agentFlag = cli.StringFlag{
		Name:  "agent",
		Usage: "Hex address of the agent account",
	}
	taskFlag = cli.StringFlag{
		Name:  "task",
		Usage: "Hex address of the task account",
	}
	requesterFlag = cli.StringFlag{
		Name:  "requester",
		Usage: "Hex address of the requesting agent account",
	}
	executorAgentFlag = cli.StringFlag{
		Name:  "executor-agent",
		Usage: "Hex address of the executor's agent account receiving the escrow",
	}
	amountFlag = cli.Uint64Flag{
		Name:  "amount",
		Usage: "Credit amount",
	}
	priceFlag = cli.Uint64Flag{
		Name:  "price",
		Usage: "Escrowed credit price of the task",
	}
	nonceFlag = cli.Uint64Flag{
		Name:  "nonce",
		Usage: "Derivation nonce for the new account address",
	}
	cpuFlag = cli.UintFlag{
		Name:  "cpu",
		Usage: "Required compute units",
		Value: 100,
	}
	memoryFlag = cli.UintFlag{
		Name:  "memory",
		Usage: "Required memory in MB",
		Value: 512,
	}
	storageFlag = cli.UintFlag{
		Name:  "storage",
		Usage: "Required storage in MB",
		Value: 1024,
	}
	maxTimeFlag = cli.UintFlag{
		Name:  "max-time",
		Usage: "Maximum execution time in seconds",
		Value: 3600,
	}
	resultFlag = cli.StringFlag{
		Name:  "result",
		Usage: "Task result payload, stored as its Keccak256 digest",
	}
)

var app = cli.NewApp()

func init() {
	app.Name = "ggrid"
	app.Usage = "the GridChain compute account tool"
	app.Flags = []cli.Flag{dataDirFlag, configFileFlag}
	app.Commands = []cli.Command{
		{
			Action:    registerAgent,
			Name:      "register",
			Usage:     "Register a new compute agent",
			ArgsUsage: " ",
			Flags:     []cli.Flag{ownerFlag, nonceFlag},
		},
		{
			Action:    depositCredits,
			Name:      "deposit",
			Usage:     "Fund an agent account with credits",
			ArgsUsage: " ",
			Flags:     []cli.Flag{agentFlag, keyFlag, amountFlag},
		},
		{
			Action:    withdrawCredits,
			Name:      "withdraw",
			Usage:     "Withdraw credits from an owned agent account",
			ArgsUsage: " ",
			Flags:     []cli.Flag{agentFlag, keyFlag, amountFlag},
		},
		{
			Action:    createTask,
			Name:      "create-task",
			Usage:     "Create a compute task and escrow its price",
			ArgsUsage: " ",
			Flags:     []cli.Flag{agentFlag, keyFlag, priceFlag, nonceFlag, cpuFlag, memoryFlag, storageFlag, maxTimeFlag},
		},
		{
			Action:    executeTask,
			Name:      "execute-task",
			Usage:     "Claim a created task for execution",
			ArgsUsage: " ",
			Flags:     []cli.Flag{taskFlag, keyFlag},
		},
		{
			Action:    completeTask,
			Name:      "complete-task",
			Usage:     "Complete an executing task and release the escrow",
			ArgsUsage: " ",
			Flags:     []cli.Flag{taskFlag, requesterFlag, executorAgentFlag, keyFlag, resultFlag},
		},
		{
			Action:    failTask,
			Name:      "fail-task",
			Usage:     "Fail an open task and refund the escrow",
			ArgsUsage: " ",
			Flags:     []cli.Flag{taskFlag, requesterFlag, keyFlag},
		},
		{
			Action:    suspendAgent,
			Name:      "suspend",
			Usage:     "Suspend an agent account",
			ArgsUsage: " ",
			Flags:     []cli.Flag{agentFlag, keyFlag},
		},
		{
			Action:    dumpAccounts,
			Name:      "dump",
			Usage:     "Print every agent and task record in the store",
			ArgsUsage: " ",
		},
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// host bundles everything one invocation needs: the open store, the state
// layered over it and the configured engine.
type host struct {
	disk  griddb.Database
	db    *state.Database
	state *state.StateDB
	proc  *core.Processor
}

func openHost(ctx *cli.Context) (*host, error) {
	cfg, program, err := makeConfig(ctx)
	if err != nil {
		return nil, err
	}
	disk, err := griddb.NewLevelDB(filepath.Join(cfg.DataDir, "accounts"))
	if err != nil {
		return nil, err
	}
	db := state.NewDatabase(disk)
	return &host{
		disk:  disk,
		db:    db,
		state: state.New(db),
		proc:  core.NewProcessor(program),
	}, nil
}

func (h *host) close() {
	if err := h.disk.Close(); err != nil {
		log.Error("Failed to close account database", "err", err)
	}
}

// requireAddr parses a mandatory hex address flag.
func requireAddr(ctx *cli.Context, flag cli.StringFlag) (common.Address, error) {
	val := ctx.String(flag.Name)
	if val == "" {
		return common.Address{}, fmt.Errorf("missing required flag --%s", flag.Name)
	}
	return common.HexToAddress(val), nil
}

func registerAgent(ctx *cli.Context) error {
	owner, err := requireAddr(ctx, ownerFlag)
	if err != nil {
		return err
	}
	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.close()

	agentAddr := crypto.DeriveAddress(owner, ctx.Uint64(nonceFlag.Name))
	rawdb.AllocateAccount(h.disk, agentAddr, types.AgentSize)

	err = h.proc.Process(h.state, []core.AccountRef{
		{Address: agentAddr, Writable: true},
		{Address: owner, Signer: true},
		{Address: common.Address{}},
		{Address: common.Address{}},
	}, types.EncodeInstruction(types.RegisterInstr{}))
	if err != nil {
		// Roll the slot allocation back so a retry with another nonce is not
		// needed.
		rawdb.DeleteAccount(h.disk, agentAddr)
		return err
	}
	log.Info("Registered agent", "address", agentAddr, "owner", owner)
	fmt.Println(agentAddr.Hex())
	return nil
}

func depositCredits(ctx *cli.Context) error {
	return runCreditOp(ctx, func(amount uint64) types.Instruction {
		return types.DepositInstr{Amount: amount}
	})
}

func withdrawCredits(ctx *cli.Context) error {
	return runCreditOp(ctx, func(amount uint64) types.Instruction {
		return types.WithdrawInstr{Amount: amount}
	})
}

func runCreditOp(ctx *cli.Context, build func(uint64) types.Instruction) error {
	agentAddr, err := requireAddr(ctx, agentFlag)
	if err != nil {
		return err
	}
	key, err := requireAddr(ctx, keyFlag)
	if err != nil {
		return err
	}
	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.close()

	instr := build(ctx.Uint64(amountFlag.Name))
	err = h.proc.Process(h.state, []core.AccountRef{
		{Address: agentAddr, Writable: true},
		{Address: key, Signer: true},
	}, types.EncodeInstruction(instr))
	if err != nil {
		return err
	}
	agent, err := h.state.GetAgent(agentAddr)
	if err != nil {
		return err
	}
	log.Info("Credit ledger updated", "op", instr.Op(), "agent", agentAddr, "balance", agent.Credits)
	return nil
}

func createTask(ctx *cli.Context) error {
	agentAddr, err := requireAddr(ctx, agentFlag)
	if err != nil {
		return err
	}
	key, err := requireAddr(ctx, keyFlag)
	if err != nil {
		return err
	}
	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.close()

	req := &types.ComputeRequirements{
		CpuUnits:       uint32(ctx.Uint(cpuFlag.Name)),
		MemoryMB:       uint32(ctx.Uint(memoryFlag.Name)),
		StorageMB:      uint32(ctx.Uint(storageFlag.Name)),
		MaxTimeSeconds: uint32(ctx.Uint(maxTimeFlag.Name)),
	}
	taskAddr := crypto.DeriveAddress(agentAddr, ctx.Uint64(nonceFlag.Name))
	rawdb.AllocateAccount(h.disk, taskAddr, types.TaskSize)

	err = h.proc.Process(h.state, []core.AccountRef{
		{Address: taskAddr, Writable: true},
		{Address: agentAddr, Writable: true},
		{Address: key, Signer: true},
	}, types.EncodeInstruction(types.CreateTaskInstr{
		Requirements: req.Encode(),
		Price:        ctx.Uint64(priceFlag.Name),
	}))
	if err != nil {
		rawdb.DeleteAccount(h.disk, taskAddr)
		return err
	}
	log.Info("Created task", "address", taskAddr, "requester", agentAddr, "price", ctx.Uint64(priceFlag.Name))
	fmt.Println(taskAddr.Hex())
	return nil
}

func executeTask(ctx *cli.Context) error {
	taskAddr, err := requireAddr(ctx, taskFlag)
	if err != nil {
		return err
	}
	key, err := requireAddr(ctx, keyFlag)
	if err != nil {
		return err
	}
	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.close()

	err = h.proc.Process(h.state, []core.AccountRef{
		{Address: taskAddr, Writable: true},
		{Address: key, Signer: true},
	}, types.EncodeInstruction(types.ExecuteTaskInstr{}))
	if err != nil {
		return err
	}
	log.Info("Claimed task", "task", taskAddr, "executor", key)
	return nil
}

func completeTask(ctx *cli.Context) error {
	taskAddr, err := requireAddr(ctx, taskFlag)
	if err != nil {
		return err
	}
	requester, err := requireAddr(ctx, requesterFlag)
	if err != nil {
		return err
	}
	executorAgent, err := requireAddr(ctx, executorAgentFlag)
	if err != nil {
		return err
	}
	key, err := requireAddr(ctx, keyFlag)
	if err != nil {
		return err
	}
	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.close()

	result := crypto.Keccak256Hash([]byte(ctx.String(resultFlag.Name)))
	err = h.proc.Process(h.state, []core.AccountRef{
		{Address: taskAddr, Writable: true},
		{Address: requester, Writable: true},
		{Address: executorAgent, Writable: true},
		{Address: key, Signer: true},
	}, types.EncodeInstruction(types.CompleteTaskInstr{ResultHash: result}))
	if err != nil {
		return err
	}
	log.Info("Completed task", "task", taskAddr, "result", result)
	return nil
}

func failTask(ctx *cli.Context) error {
	taskAddr, err := requireAddr(ctx, taskFlag)
	if err != nil {
		return err
	}
	requester, err := requireAddr(ctx, requesterFlag)
	if err != nil {
		return err
	}
	key, err := requireAddr(ctx, keyFlag)
	if err != nil {
		return err
	}
	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.close()

	err = h.proc.Process(h.state, []core.AccountRef{
		{Address: taskAddr, Writable: true},
		{Address: requester, Writable: true},
		{Address: key, Signer: true},
	}, types.EncodeInstruction(types.FailTaskInstr{}))
	if err != nil {
		return err
	}
	log.Info("Failed task", "task", taskAddr, "refunded", requester)
	return nil
}

func suspendAgent(ctx *cli.Context) error {
	agentAddr, err := requireAddr(ctx, agentFlag)
	if err != nil {
		return err
	}
	key, err := requireAddr(ctx, keyFlag)
	if err != nil {
		return err
	}
	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.close()

	err = h.proc.Process(h.state, []core.AccountRef{
		{Address: agentAddr, Writable: true},
		{Address: key, Signer: true},
	}, types.EncodeInstruction(types.SuspendAgentInstr{}))
	if err != nil {
		return err
	}
	log.Info("Suspended agent", "agent", agentAddr)
	return nil
}

func dumpAccounts(ctx *cli.Context) error {
	h, err := openHost(ctx)
	if err != nil {
		return err
	}
	defer h.close()

	type agentRow struct {
		addr  common.Address
		agent *types.Agent
	}
	type taskRow struct {
		addr common.Address
		task *types.Task
	}
	var agents []agentRow
	var tasks []taskRow

	it := rawdb.IterateAccounts(h.disk)
	defer it.Release()
	for it.Next() {
		addr := rawdb.AddressFromKey(it.Key())
		raw := it.Value()
		switch len(raw) {
		case types.AgentSize:
			agent, err := types.DecodeAgent(raw)
			if err != nil || agent.Owner.IsZero() {
				continue
			}
			agents = append(agents, agentRow{addr, agent})
		case types.TaskSize:
			task, err := types.DecodeTask(raw)
			if err != nil || task.Requester.IsZero() {
				continue
			}
			tasks = append(tasks, taskRow{addr, task})
		}
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].addr.Hex() < agents[j].addr.Hex() })
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].addr.Hex() < tasks[j].addr.Hex() })

	at := tablewriter.NewWriter(os.Stdout)
	at.SetHeader([]string{"Agent", "Owner", "Credits", "Reputation", "Done", "Status"})
	for _, row := range agents {
		at.Append([]string{
			row.addr.TerminalString(),
			row.agent.Owner.TerminalString(),
			fmt.Sprintf("%d", row.agent.Credits),
			fmt.Sprintf("%d", row.agent.Reputation),
			fmt.Sprintf("%d", row.agent.TasksCompleted),
			row.agent.Status.String(),
		})
	}
	at.Render()

	tt := tablewriter.NewWriter(os.Stdout)
	tt.SetHeader([]string{"Task", "Requester", "Executor", "Price", "Status", "Result"})
	for _, row := range tasks {
		executor := "-"
		if !row.task.Executor.IsZero() {
			executor = row.task.Executor.TerminalString()
		}
		result := "-"
		if row.task.Status == types.TaskCompleted {
			result = row.task.ResultHash.TerminalString()
		}
		tt.Append([]string{
			row.addr.TerminalString(),
			row.task.Requester.TerminalString(),
			executor,
			fmt.Sprintf("%d", row.task.Price),
			row.task.Status.String(),
			result,
		})
	}
	tt.Render()
	return nil
}
