package models

// jobTransitions - единая таблица допустимых переходов статуса работы.
// Все изменения статуса проходят через CanTransition, чтобы проверка
// не дублировалась по обработчикам.
var jobTransitions = map[JobStatus][]JobStatus{
	OpenJob:       {BiddingJob, AwardedJob, CancelledJob},
	BiddingJob:    {OpenJob, AwardedJob, CancelledJob},
	AwardedJob:    {UpcomingJob, InProgressJob, OnHoldJob, CompletedJob},
	UpcomingJob:   {InProgressJob, OnHoldJob, CompletedJob},
	InProgressJob: {UpcomingJob, OnHoldJob, CompletedJob},
	OnHoldJob:     {UpcomingJob, InProgressJob, CompletedJob},
	CompletedJob:  {}, // терминальный статус
	CancelledJob:  {}, // терминальный статус
}

// CanTransition проверяет, разрешен ли переход из статуса s в статус next.
func (s JobStatus) CanTransition(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal проверяет, является ли статус терминальным.
func (s JobStatus) Terminal() bool {
	return len(jobTransitions[s]) == 0
}

// AcceptsBids проверяет, принимает ли работа в этом статусе новые предложения.
func (s JobStatus) AcceptsBids() bool {
	return s == OpenJob || s == BiddingJob
}

// ExecutionStatus проверяет, относится ли статус к стадии выполнения работы.
// Переходы между этими статусами делает только исполнитель, которому
// присуждена работа.
func (s JobStatus) ExecutionStatus() bool {
	switch s {
	case UpcomingJob, InProgressJob, OnHoldJob, CompletedJob:
		return true
	default:
		return false
	}
}

// ValidJobStatus проверяет, что статус входит в список допустимых.
func ValidJobStatus(s JobStatus) bool {
	_, ok := jobTransitions[s]
	return ok
}
