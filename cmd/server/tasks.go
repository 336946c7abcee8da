package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/yukikurage/taskboard-api/internal/live"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/services"
)

func tasksCmd() *cobra.Command {
	var (
		status string
		user   string
		search string
		sort   string
	)

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Print one board column as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}

			userRepo := repository.NewUserRepository(db)
			taskService := services.NewTaskService(repository.NewTaskRepository(db), userRepo, live.NewHub(), nil)
			users := services.NewUserService(userRepo)

			tasks, err := taskService.ListTasks(services.TaskQuery{
				Status:     models.TaskStatus(status),
				UserFilter: user,
				Search:     search,
				Sort:       services.SortMode(sort),
			})
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Title", "Priority", "Deadline", "Publisher", "Responsible"})
			for _, t := range tasks {
				publisher, err := users.DisplayName(t.PublisherID)
				if err != nil {
					return err
				}
				responsible := ""
				if t.ResponsibleID != nil {
					if responsible, err = users.DisplayName(*t.ResponsibleID); err != nil {
						return err
					}
				}
				tw.AppendRow(table.Row{t.ID, t.Title, t.Priority, t.Deadline.Format("2006-01-02 15:04"), publisher, responsible})
			}
			tw.AppendFooter(table.Row{"", "", "", "", "Total", len(tasks)})
			tw.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "to-do", "board column (to-do, inprogress, done)")
	cmd.Flags().StringVar(&user, "user", "all", "publisher on to-do, responsible user elsewhere")
	cmd.Flags().StringVar(&search, "q", "", "text searched in title and description")
	cmd.Flags().StringVar(&sort, "sort", "priority", "priority or deadline")
	return cmd
}
