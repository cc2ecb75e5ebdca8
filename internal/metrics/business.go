package metrics

// IncrementWorkflowCreated increments workflow creation counter
func (m *Metrics) IncrementWorkflowCreated() {
	m.safeExecute("IncrementWorkflowCreated", func() {
		m.WorkflowCreatedTotal.Inc()
	})
}

// IncrementContractCreated increments contract creation counter
func (m *Metrics) IncrementContractCreated() {
	m.safeExecute("IncrementContractCreated", func() {
		m.ContractCreatedTotal.Inc()
	})
}

// RecordStatusTransition counts a status change per entity kind
func (m *Metrics) RecordStatusTransition(entity, toStatus string) {
	m.safeExecute("RecordStatusTransition", func() {
		m.StatusTransitionsTotal.WithLabelValues(entity, toStatus).Inc()
	})
}

// AddBackfillRecordsUpserted adds to the backfill upsert counter
func (m *Metrics) AddBackfillRecordsUpserted(n int) {
	m.safeExecute("AddBackfillRecordsUpserted", func() {
		m.BackfillRecordsUpserted.Add(float64(n))
	})
}

// IncrementBackfillWindowFailed counts a failed backfill window
func (m *Metrics) IncrementBackfillWindowFailed() {
	m.safeExecute("IncrementBackfillWindowFailed", func() {
		m.BackfillWindowsFailed.Inc()
	})
}

// RecordNotificationSent counts a successful channel delivery
func (m *Metrics) RecordNotificationSent(channel string) {
	m.safeExecute("RecordNotificationSent", func() {
		m.NotificationsSentTotal.WithLabelValues(channel).Inc()
	})
}

// RecordNotificationFailed counts a failed channel delivery
func (m *Metrics) RecordNotificationFailed(channel string) {
	m.safeExecute("RecordNotificationFailed", func() {
		m.NotificationsFailedTotal.WithLabelValues(channel).Inc()
	})
}

// SetWorkflowsTotal sets total workflows gauge
func (m *Metrics) SetWorkflowsTotal(count int64) {
	m.safeExecute("SetWorkflowsTotal", func() {
		m.WorkflowsTotal.Set(float64(count))
	})
}

// SetContractsTotal sets total contracts gauge
func (m *Metrics) SetContractsTotal(count int64) {
	m.safeExecute("SetContractsTotal", func() {
		m.ContractsTotal.Set(float64(count))
	})
}
