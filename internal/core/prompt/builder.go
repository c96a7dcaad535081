package prompt

import (
	"fmt"
	"time"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

// BuildInstructionPair assembles the system and user instructions for one
// assessment. The notice content is embedded verbatim.
func BuildInstructionPair(notice domain.Notice, company domain.Company, history []domain.Project, today time.Time) domain.InstructionPair {
	return domain.InstructionPair{
		System: SystemInstruction,
		User: fmt.Sprintf(userInstructionTemplate,
			today.Format(time.DateOnly),
			notice.Title,
			notice.Content,
			FormatCompany(company, today),
			FormatHistory(history),
		),
	}
}
