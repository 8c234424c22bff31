package main

import (
	"log/slog"
	"os"
	"testing"

	"github.com/poiesic/jsonmend/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestBatchCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "jsonmend",
		Commands: []*cli.Command{
			{
				Name:   "batch",
				Usage:  "Repair every file in a directory concurrently",
				Action: batchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "Directory of documents to repair",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "glob",
						Usage: "File pattern to repair within the directory",
						Value: "*.json",
					},
					&cli.StringFlag{
						Name:  "journal",
						Usage: "Path to BadgerDB journal directory (journaling off if omitted)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Worker pool size",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 100,
					},
				},
			},
		},
	}

	t.Run("dir is required", func(t *testing.T) {
		args := []string{"jsonmend", "batch"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dir")
	})

	t.Run("glob has default value", func(t *testing.T) {
		cmd := app.Commands[0]
		var globFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "glob" {
				globFlag = f
				break
			}
		}
		require.NotNil(t, globFlag)
		assert.Equal(t, "*.json", globFlag.Value)
	})

	t.Run("workers has default value of 4", func(t *testing.T) {
		cmd := app.Commands[0]
		var workersFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "workers" {
				workersFlag = f
				break
			}
		}
		require.NotNil(t, workersFlag)
		assert.Equal(t, 4, workersFlag.Value)
	})

	t.Run("report-interval has default value of 100", func(t *testing.T) {
		cmd := app.Commands[0]
		var reportFlag *cli.IntFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == "report-interval" {
				reportFlag = f
				break
			}
		}
		require.NotNil(t, reportFlag)
		assert.Equal(t, 100, reportFlag.Value)
	})

	t.Run("journal is optional", func(t *testing.T) {
		cmd := app.Commands[0]
		var journalFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "journal" {
				journalFlag = f
				break
			}
		}
		require.NotNil(t, journalFlag)
		assert.False(t, journalFlag.Required)
		assert.Empty(t, journalFlag.Value)
	})
}

func TestGenerateCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "jsonmend",
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Request JSON from a model and repair the completion",
				Action: generateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Usage: "Completion service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "model",
						Usage:    "Completion model name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "system",
						Usage:    "System prompt",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "user",
						Usage:    "User prompt",
						Required: true,
					},
				},
			},
		},
	}

	t.Run("model is required", func(t *testing.T) {
		args := []string{"jsonmend", "generate", "--system", "s", "--user", "u"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model")
	})

	t.Run("system is required", func(t *testing.T) {
		args := []string{"jsonmend", "generate", "--model", "test-model", "--user", "u"}
		err := app.Run(args)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "system")
	})

	t.Run("host has default value", func(t *testing.T) {
		cmd := app.Commands[0]
		var hostFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "host" {
				hostFlag = f
				break
			}
		}
		require.NotNil(t, hostFlag)
		assert.Equal(t, "http://localhost:11434/v1", hostFlag.Value)
	})
}

func TestParseShapeHint(t *testing.T) {
	t.Run("empty spec yields nil hint", func(t *testing.T) {
		hint, err := parseShapeHint("")
		require.NoError(t, err)
		assert.Nil(t, hint)
	})

	t.Run("single field", func(t *testing.T) {
		hint, err := parseShapeHint("title:string")
		require.NoError(t, err)
		assert.Equal(t, core.ShapeHint{"title": core.FieldString}, hint)
	})

	t.Run("all kinds", func(t *testing.T) {
		hint, err := parseShapeHint("a:string,b:number,c:array,d:object,e:bool")
		require.NoError(t, err)
		assert.Equal(t, core.ShapeHint{
			"a": core.FieldString,
			"b": core.FieldNumber,
			"c": core.FieldArray,
			"d": core.FieldObject,
			"e": core.FieldBool,
		}, hint)
	})

	t.Run("whitespace around entries is tolerated", func(t *testing.T) {
		hint, err := parseShapeHint(" title:string , count: number ")
		require.NoError(t, err)
		assert.Equal(t, core.ShapeHint{
			"title": core.FieldString,
			"count": core.FieldNumber,
		}, hint)
	})

	t.Run("unknown kind fails", func(t *testing.T) {
		_, err := parseShapeHint("title:text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid hint kind")
	})

	t.Run("missing colon fails", func(t *testing.T) {
		_, err := parseShapeHint("title")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "want name:kind")
	})
}

func TestExcerpt(t *testing.T) {
	t.Run("short strings pass through", func(t *testing.T) {
		assert.Equal(t, "hello", excerpt("hello", 10))
	})

	t.Run("long strings are truncated", func(t *testing.T) {
		got := excerpt("aaaaaaaaaa", 4)
		assert.Equal(t, "aaaa...", got)
	})

	t.Run("newlines are escaped", func(t *testing.T) {
		assert.Equal(t, `a\nb`, excerpt("a\nb", 10))
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		testCases := []string{
			"DEBUG",
			"Info",
			"WaRn",
			"ERROR",
		}

		for _, tc := range testCases {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "invalid")
	})

	t.Run("default log level is info", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				level := c.String("log-level")
				assert.Equal(t, "info", level)
				return nil
			},
		}

		err := app.Run([]string{"test"})
		require.NoError(t, err)
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
