// ABOUTME: Tests for the container endpoint bindings
// ABOUTME: Checks paths, query encoding, status handling and stream shapes

package libpod

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/podman-client/internal/podman"
)

func TestContainers_Create(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+prefix+"/libpod/containers/create", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, `{"Id":"4f1d","Warnings":[]}`)
	})
	svc := newTestService(t, mux)

	resp, err := svc.Containers.Create(context.Background(), ContainerSpec{
		Name:    "web",
		Image:   "docker.io/library/nginx:latest",
		Env:     map[string]string{"MODE": "prod"},
		Remove:  true,
		Command: []string{"nginx", "-g", "daemon off;"},
	})

	require.NoError(t, err)
	assert.Equal(t, "4f1d", resp.ID)
	assert.Equal(t, "web", got["name"])
	assert.Equal(t, true, got["remove"])
	assert.NotContains(t, got, "pod")
}

func TestContainers_ListEncodesFilters(t *testing.T) {
	var query map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix+"/libpod/containers/json", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(w, http.StatusOK, `[{"Id":"0123456789abcdef","Names":["web"],"State":"running","Created":"2024-05-01T10:00:00Z","Ports":null}]`)
	})
	svc := newTestService(t, mux)

	list, err := svc.Containers.List(context.Background(), ListContainersParams{
		All:     true,
		Filters: podman.Filters{"label": {"app=web"}},
	})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "web", list[0].Name())
	assert.Equal(t, []string{"true"}, query["all"])
	assert.JSONEq(t, `{"label":["app=web"]}`, query["filters"][0])
	assert.NotContains(t, query, "limit")
}

func TestContainers_InspectNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix+"/libpod/containers/{name}/json", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFound)
	})
	svc := newTestService(t, mux)

	_, err := svc.Containers.Inspect(context.Background(), "ghost", InspectContainerParams{})

	assert.ErrorIs(t, err, podman.ErrNotFound)
	kind, ok := podman.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, podman.KindDaemon, kind)
}

func TestContainers_InspectDecodesState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix+"/libpod/containers/web/json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("size"))
		writeJSON(w, http.StatusOK, `{"Id":"abc","Name":"web","State":{"Status":"running","Running":true,"Pid":42},"Config":{"Env":["A=1"]},"SizeRootFs":1024}`)
	})
	svc := newTestService(t, mux)

	got, err := svc.Containers.Inspect(context.Background(), "web", InspectContainerParams{Size: true})

	require.NoError(t, err)
	assert.True(t, got.State.Running)
	assert.Equal(t, 42, got.State.Pid)
	assert.JSONEq(t, `{"Env":["A=1"]}`, string(got.Config))
	assert.EqualValues(t, 1024, got.SizeRootFs)
}

func TestContainers_LifecycleActions(t *testing.T) {
	var seen []string
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+prefix+"/libpod/containers/web/{action}", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.PathValue("action")+"?"+r.URL.RawQuery)
		w.WriteHeader(http.StatusNoContent)
	})
	svc := newTestService(t, mux)
	ctx := context.Background()
	timeout := uint(5)

	require.NoError(t, svc.Containers.Start(ctx, "web", StartContainerParams{}))
	require.NoError(t, svc.Containers.Stop(ctx, "web", StopContainerParams{Timeout: &timeout}))
	require.NoError(t, svc.Containers.Restart(ctx, "web", RestartContainerParams{Timeout: &timeout}))
	require.NoError(t, svc.Containers.Kill(ctx, "web", KillContainerParams{Signal: "SIGTERM"}))
	require.NoError(t, svc.Containers.Pause(ctx, "web"))
	require.NoError(t, svc.Containers.Unpause(ctx, "web"))
	require.NoError(t, svc.Containers.Rename(ctx, "web", "web2"))
	require.NoError(t, svc.Containers.Unmount(ctx, "web"))

	assert.Equal(t, []string{
		"start?",
		"stop?timeout=5",
		"restart?t=5",
		"kill?signal=SIGTERM",
		"pause?",
		"unpause?",
		"rename?name=web2",
		"unmount?",
	}, seen)
}

func TestContainers_InitAcceptsNotModified(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+prefix+"/libpod/containers/web/init", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	})
	svc := newTestService(t, mux)

	assert.NoError(t, svc.Containers.Init(context.Background(), "web"))
}

func TestContainers_StartNotModifiedIsError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+prefix+"/libpod/containers/web/start", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	})
	svc := newTestService(t, mux)

	err := svc.Containers.Start(context.Background(), "web", StartContainerParams{})

	var re *podman.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotModified, re.StatusCode)
}

func TestContainers_Delete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE "+prefix+"/libpod/containers/{name}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("name") {
		case "quiet":
			w.WriteHeader(http.StatusNoContent)
		case "reported":
			assert.Equal(t, "true", r.URL.Query().Get("force"))
			assert.Equal(t, "true", r.URL.Query().Get("v"))
			writeJSON(w, http.StatusOK, `[{"Id":"abc"}]`)
		case "running":
			writeJSON(w, http.StatusConflict, `[{"Id":"def","Err":"container is running"}]`)
		default:
			writeJSON(w, http.StatusConflict, `{"cause":"container state improper","message":"cannot remove","response":409}`)
		}
	})
	svc := newTestService(t, mux)
	ctx := context.Background()

	reports, err := svc.Containers.Delete(ctx, "quiet", DeleteContainerParams{})
	require.NoError(t, err)
	assert.Nil(t, reports)

	reports, err = svc.Containers.Delete(ctx, "reported", DeleteContainerParams{Force: true, Volumes: true})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "abc", reports[0].ID)

	reports, err = svc.Containers.Delete(ctx, "running", DeleteContainerParams{})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "container is running", reports[0].Err)

	_, err = svc.Containers.Delete(ctx, "improper", DeleteContainerParams{})
	assert.ErrorIs(t, err, podman.ErrConflict)
}

func TestContainers_LogsDefaultsToBothStreams(t *testing.T) {
	var query map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix+"/libpod/containers/web/logs", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("starting\nready\n"))
	})
	svc := newTestService(t, mux)

	lines, err := svc.Containers.Logs(context.Background(), "web", LogsParams{Tail: "10"}).Collect()

	require.NoError(t, err)
	assert.Equal(t, []string{"starting", "ready"}, lines)
	assert.Equal(t, []string{"true"}, query["stdout"])
	assert.Equal(t, []string{"true"}, query["stderr"])
	assert.Equal(t, []string{"10"}, query["tail"])
}

func TestContainers_StatsFlattensContainerNames(t *testing.T) {
	var rawQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix+"/libpod/containers/stats", func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, `{"Error":null,"Stats":[{"ContainerID":"abc","Name":"web","CPU":1.5,"MemUsage":2048}]}`)
	})
	svc := newTestService(t, mux)

	report, err := svc.Containers.Stats(context.Background(), StatsParams{Containers: []string{"web", "db"}, Stream: true})

	require.NoError(t, err)
	assert.Equal(t, "containers=web&containers=db&stream=false", rawQuery)
	require.Len(t, report.Stats, 1)
	assert.InDelta(t, 1.5, report.Stats[0].CPU, 0.001)
	assert.EqualValues(t, 2048, report.Stats[0].MemUsage)
}

func TestContainers_StatsStream(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix+"/libpod/containers/stats", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("stream"))
		assert.Equal(t, "2", r.URL.Query().Get("interval"))
		w.WriteHeader(http.StatusOK)
		for _, cpu := range []string{"1", "2", "3"} {
			_, _ = w.Write([]byte(`{"Stats":[{"Name":"web","CPU":` + cpu + `}]}` + "\n"))
			w.(http.Flusher).Flush()
		}
	})
	svc := newTestService(t, mux)

	samples, err := svc.Containers.StatsStream(context.Background(), StatsParams{Interval: 2}).Collect()

	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.InDelta(t, 3.0, samples[2].Stats[0].CPU, 0.001)
}

func TestContainers_TopBufferedAndStreaming(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix+"/libpod/containers/web/top", func(w http.ResponseWriter, r *http.Request) {
		table := `{"Titles":["PID","COMMAND"],"Processes":[["1","nginx"]]}`
		if r.URL.Query().Get("stream") == "false" {
			writeJSON(w, http.StatusOK, table)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(table + "\n" + table + "\n"))
	})
	svc := newTestService(t, mux)

	top, err := svc.Containers.Top(context.Background(), "web", TopParams{PsArgs: "-ef"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PID", "COMMAND"}, top.Titles)

	ticks, err := svc.Containers.TopStream(context.Background(), "web", TopParams{Delay: 1}).Collect()
	require.NoError(t, err)
	assert.Len(t, ticks, 2)
}

func TestContainers_ExportAndCheckpointChunks(t *testing.T) {
	archive := bytes.Repeat([]byte{0x1f, 0x8b, 0x08}, 50000)
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix+"/libpod/containers/web/export", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(archive)
	})
	mux.HandleFunc("POST "+prefix+"/libpod/containers/web/checkpoint", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("export") != "true" {
			writeJSON(w, http.StatusInternalServerError, `{"cause":"criu","message":"checkpoint failed","response":500}`)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(archive[:100])
	})
	svc := newTestService(t, mux)
	ctx := context.Background()

	chunks, err := svc.Containers.Export(ctx, "web").Collect()
	require.NoError(t, err)
	assert.Equal(t, archive, bytes.Join(chunks, nil))

	chunks, err = svc.Containers.Checkpoint(ctx, "web", CheckpointParams{Export: true, LeaveRunning: true}).Collect()
	require.NoError(t, err)
	assert.Len(t, bytes.Join(chunks, nil), 100)

	chunks, err = svc.Containers.Checkpoint(ctx, "web", CheckpointParams{}).Collect()
	assert.Empty(t, chunks)
	var de *podman.DaemonError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "criu", de.Cause)
}

func TestContainers_MountReturnsPath(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"json string", `"/var/lib/containers/storage/overlay/abc/merged"` + "\n"},
		{"plain text", "/var/lib/containers/storage/overlay/abc/merged"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST "+prefix+"/libpod/containers/web/mount", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = io.WriteString(w, tt.body)
			})
			svc := newTestService(t, mux)

			path, err := svc.Containers.Mount(context.Background(), "web")

			require.NoError(t, err)
			assert.Equal(t, "/var/lib/containers/storage/overlay/abc/merged", path)
		})
	}
}

func TestContainers_WaitReturnsExitCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+prefix+"/libpod/containers/web/wait", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"stopped", "exited"}, r.URL.Query()["condition"])
		writeJSON(w, http.StatusOK, "137\n")
	})
	svc := newTestService(t, mux)

	code, err := svc.Containers.Wait(context.Background(), "web", WaitParams{Condition: []string{"stopped", "exited"}})

	require.NoError(t, err)
	assert.EqualValues(t, 137, code)
}

func TestContainers_PruneAndHealthcheck(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+prefix+"/libpod/containers/prune", func(w http.ResponseWriter, r *http.Request) {
		assert.JSONEq(t, `{"until":["24h"]}`, r.URL.Query().Get("filters"))
		writeJSON(w, http.StatusOK, `[{"Id":"abc","Size":100},{"Id":"def","Err":"in use"}]`)
	})
	mux.HandleFunc("GET "+prefix+"/libpod/containers/web/healthcheck", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"Status":"healthy","FailingStreak":0,"Log":[{"ExitCode":0,"Output":"ok"}]}`)
	})
	svc := newTestService(t, mux)
	ctx := context.Background()

	pruned, err := svc.Containers.Prune(ctx, podman.Filters{"until": {"24h"}})
	require.NoError(t, err)
	require.Len(t, pruned, 2)
	assert.Equal(t, "in use", pruned[1].Err)

	health, err := svc.Containers.Healthcheck(ctx, "web")
	require.NoError(t, err)
	assert.Equal(t, "healthy", health.Status)
	require.Len(t, health.Log, 1)
	assert.Equal(t, "ok", health.Log[0].Output)
}
