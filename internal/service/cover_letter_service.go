package service

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const coverLetterSystemPrompt = `You are an expert career coach and professional copywriter.
Write a compelling, personalized cover letter for a candidate applying to the provided Job Description.

Guidelines:
1. Hook the reader immediately.
2. Explicitly mention the candidate's confirmed STRENGTHS as proof of value.
3. Briefly acknowledge the GAPS but frame them positively (e.g., "eager to expand my expertise in...").
4. Keep it concise (under 300 words).
5. Return ONLY the body of the email/letter. No placeholders like [Your Name] unless necessary.`

const fallbackCoverLetter = `Dear Hiring Manager,

I am writing to express my strong interest in this position. Based on the job description, my background in %v aligns perfectly with your needs.

While I have less experience with %v, I am a fast learner and eager to upskill in these areas.

Sincerely,
Candidate`

// coverLetterErrorText is returned instead of an error when the delegated
// call fails; the caller never sees letter generation fail.
const coverLetterErrorText = "Error generating cover letter."

// maxJobTextPromptLen bounds how much of the job description is sent to the
// external capability.
const maxJobTextPromptLen = 2000

// CoverLetterService produces a cover-letter body from a job description and
// the candidate's confirmed strengths and gaps. A nil generator pins it to
// the fixed template.
type CoverLetterService struct {
	gen TextGenerator
}

func NewCoverLetterService(gen TextGenerator) *CoverLetterService {
	return &CoverLetterService{gen: gen}
}

func (s *CoverLetterService) Generate(ctx context.Context, jobText string, strengths, gaps []string) string {
	if s.gen == nil {
		log.Println("No narrative capability configured. Using template cover letter.")
		return fmt.Sprintf(fallbackCoverLetter, strengths, gaps)
	}

	jobExcerpt := jobText
	if len(jobExcerpt) > maxJobTextPromptLen {
		jobExcerpt = jobExcerpt[:maxJobTextPromptLen] + "..."
	}

	userPrompt := fmt.Sprintf(`JOB DESCRIPTION:
%s

CANDIDATE STRENGTHS (Verified):
%s

CANDIDATE GAPS (To learn):
%s`, jobExcerpt, strings.Join(strengths, ", "), strings.Join(gaps, ", "))

	letter, err := s.gen.Complete(ctx, coverLetterSystemPrompt, userPrompt)
	if err != nil {
		log.Printf("Cover letter generation failed: %v", err)
		return coverLetterErrorText
	}
	return letter
}
