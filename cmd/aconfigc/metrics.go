// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	flagsReconciledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aconfigc_flags_reconciled_total",
		Help: "Number of flags reconciled into a cache by create-cache.",
	}, []string{"container"})

	storageFilesWrittenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aconfigc_storage_files_written_total",
		Help: "Number of on-device storage files written by create-storage.",
	}, []string{"container"})

	codegenFilesWrittenTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aconfigc_codegen_files_written_total",
		Help: "Number of generated accessor source files written by create-*-lib.",
	}, []string{"language", "mode"})
)

// startMetricsServer serves /metrics on addr in the background if addr
// is non-empty, mirroring the teacher's optional Prometheus endpoint.
func startMetricsServer(addr string) {
	if addr == "" {
		return
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		slog.Info("metrics.http.start", "addr", addr, "path", "/metrics")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Warn("metrics.http.error", "err", err)
		}
	}()
}
