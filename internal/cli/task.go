package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robocompute/robocompute-go/api"
	"github.com/robocompute/robocompute-go/client"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Submit and monitor tasks",
}

var (
	flagTaskType     string
	flagTaskImage    string
	flagTaskCommand  []string
	flagTaskMaxPrice string
	flagTaskCPU      int
	flagTaskGPU      int
	flagTaskRAM      int
	flagTaskPriority string
	flagTaskTimeout  int
	flagListStatus   string
	flagListLimit    int
)

func init() {
	taskCreateCmd.Flags().StringVar(&flagTaskType, "type", "cpu", "task type (cpu, gpu)")
	taskCreateCmd.Flags().StringVar(&flagTaskImage, "image", "", "docker image")
	taskCreateCmd.Flags().StringSliceVar(&flagTaskCommand, "cmd", nil, "command to run")
	taskCreateCmd.Flags().StringVar(&flagTaskMaxPrice, "max-price", "", "max price per hour (USDC)")
	taskCreateCmd.Flags().IntVar(&flagTaskCPU, "cpu", 1, "CPU cores")
	taskCreateCmd.Flags().IntVar(&flagTaskGPU, "gpu-memory", 0, "GPU memory (GB)")
	taskCreateCmd.Flags().IntVar(&flagTaskRAM, "ram", 1, "RAM (GB)")
	taskCreateCmd.Flags().StringVar(&flagTaskPriority, "priority", "normal", "priority (high, normal, low)")
	taskCreateCmd.Flags().IntVar(&flagTaskTimeout, "timeout", 3600, "timeout in seconds")
	taskListCmd.Flags().StringVar(&flagListStatus, "status", "", "filter by status")
	taskListCmd.Flags().IntVar(&flagListLimit, "limit", 50, "max results")

	taskCmd.AddCommand(taskCreateCmd, taskGetCmd, taskListCmd, taskCancelCmd, taskWatchCmd)
	rootCmd.AddCommand(taskCmd)
}

var taskCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Submit a new task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		task, err := c.Tasks.Create(cmd.Context(), client.CreateTaskInput{
			Name: args[0],
			Type: flagTaskType,
			Requirements: api.ResourceRequirements{
				CPUCores:    flagTaskCPU,
				GPUMemoryGB: flagTaskGPU,
				RAMGB:       flagTaskRAM,
			},
			DockerImage:     flagTaskImage,
			Command:         flagTaskCommand,
			MaxPricePerHour: flagTaskMaxPrice,
			TimeoutSeconds:  flagTaskTimeout,
			Priority:        flagTaskPriority,
		})
		if err != nil {
			return renderError(err)
		}

		fmt.Printf("Task %s created (status: %s, estimated cost: %s)\n",
			task.ID, task.Status, task.EstimatedCost)
		return nil
	},
}

var taskGetCmd = &cobra.Command{
	Use:   "get TASK_ID",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		task, err := c.Tasks.Get(cmd.Context(), args[0])
		if err != nil {
			return renderError(err)
		}

		printTasks([]api.Task{*task})
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		list, err := c.Tasks.List(cmd.Context(), client.ListTasksOptions{
			Status: flagListStatus,
			Limit:  flagListLimit,
		})
		if err != nil {
			return renderError(err)
		}

		if len(list.Tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}
		printTasks(list.Tasks)
		return nil
	},
}

var taskCancelCmd = &cobra.Command{
	Use:   "cancel TASK_ID",
	Short: "Cancel a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		task, err := c.Tasks.Cancel(cmd.Context(), args[0])
		if err != nil {
			return renderError(err)
		}

		fmt.Printf("Task %s cancelled\n", task.ID)
		return nil
	},
}

var taskWatchCmd = &cobra.Command{
	Use:   "watch TASK_ID",
	Short: "Stream task status updates until the task finishes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		stream, err := c.Tasks.Stream(cmd.Context(), args[0])
		if err != nil {
			return renderError(err)
		}
		defer stream.Close()

		for update := range stream.Updates() {
			fmt.Printf("%s %3d%%\n", update.Status, update.Progress)
		}
		if err := stream.Err(); err != nil {
			return renderError(err)
		}
		return nil
	},
}

func printTasks(tasks []api.Task) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSTATUS\tPRIORITY\tMAX PRICE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Name, t.Type, t.Status, t.Priority, t.MaxPricePerHour)
	}
	w.Flush()
}

// renderError unpacks typed API failures into a readable one-liner.
func renderError(err error) error {
	apiErr, ok := api.AsError(err)
	if !ok {
		return err
	}

	var details []string
	for k, v := range apiErr.Details {
		details = append(details, fmt.Sprintf("%s=%v", k, v))
	}
	if len(details) > 0 {
		return fmt.Errorf("%s [%s] (%s)", apiErr.Message, apiErr.Code, strings.Join(details, " "))
	}
	return fmt.Errorf("%s [%s]", apiErr.Message, apiErr.Code)
}
