package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"trivia-service/internal/constants"
	"trivia-service/internal/models"
)

const FetchApprovedMethod = "/trivia.questions.v1.QuestionBank/FetchApproved"

// QuestionClient talks to the question bank service. Requests and replies
// are google.protobuf.Struct messages:
//
//	request: {"theme": "Science"}
//	reply:   {"questions": [{"text", "options", "correctIndex", "difficulty", "theme"}]}
type QuestionClient struct {
	conn *grpc.ClientConn
}

func NewQuestionClient(host, port string) (*QuestionClient, error) {
	addr := fmt.Sprintf("%s:%s", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to question bank: %w", err)
	}

	return &QuestionClient{conn: conn}, nil
}

func NewQuestionClientWithConn(conn *grpc.ClientConn) *QuestionClient {
	return &QuestionClient{conn: conn}
}

func (c *QuestionClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *QuestionClient) FetchApproved(ctx context.Context, theme string) ([]models.Question, error) {
	req, err := structpb.NewStruct(map[string]any{"theme": theme})
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, FetchApprovedMethod, req, resp); err != nil {
		return nil, fmt.Errorf("failed to fetch approved questions: %w", err)
	}

	return decodeQuestions(resp), nil
}

func decodeQuestions(resp *structpb.Struct) []models.Question {
	list := resp.GetFields()["questions"].GetListValue()

	questions := make([]models.Question, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		fields := v.GetStructValue().GetFields()
		if fields == nil {
			continue
		}

		q := models.Question{
			Text:         fields["text"].GetStringValue(),
			CorrectIndex: int(fields["correctIndex"].GetNumberValue()),
			Difficulty:   fields["difficulty"].GetStringValue(),
			Theme:        fields["theme"].GetStringValue(),
			Type:         constants.QuestionTypeMultiple,
		}
		if q.Difficulty == "" {
			q.Difficulty = constants.DifficultyMedium
		}
		for _, opt := range fields["options"].GetListValue().GetValues() {
			q.Options = append(q.Options, opt.GetStringValue())
		}
		questions = append(questions, q)
	}
	return questions
}
