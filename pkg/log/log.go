// Package log logrus 기반의 전역 로깅 설정과 컴포넌트 로거 헬퍼를 제공합니다.
//
// 모든 로그에는 출처를 나타내는 component 필드를 붙이고,
// 감시 주기(sweep_id)나 상품(product_id) 같은 상관관계 필드는 context에 실어 전달합니다.
//
//	ctx = log.ContextWithFields(ctx, log.Fields{"sweep_id": id})
//	log.FromContext(ctx, "watcher.service").Info("감시 주기를 시작합니다")
package log

import (
	"context"
	"maps"

	"github.com/sirupsen/logrus"
)

type fieldsKey struct{}

// WithComponent component 필드가 포함된 Entry를 반환합니다.
func WithComponent(component string) *Entry {
	return logrus.WithField("component", component)
}

// WithComponentAndFields component 필드와 추가 필드가 포함된 Entry를 반환합니다.
func WithComponentAndFields(component string, fields Fields) *Entry {
	newFields := make(Fields, len(fields)+1)
	maps.Copy(newFields, fields)
	newFields["component"] = component
	return logrus.WithFields(newFields)
}

// ContextWithFields ctx에 실린 필드에 fields를 더한 새 context를 반환합니다.
// 같은 키가 있으면 나중에 추가한 값이 우선합니다.
func ContextWithFields(ctx context.Context, fields Fields) context.Context {
	merged := make(Fields, len(fields))
	if prev, ok := ctx.Value(fieldsKey{}).(Fields); ok {
		maps.Copy(merged, prev)
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// FieldsFromContext ctx에 실린 필드를 반환합니다. 없으면 nil입니다.
func FieldsFromContext(ctx context.Context) Fields {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).(Fields)
	return fields
}

// FromContext component 필드와 ctx에 실린 상관관계 필드가 포함된 Entry를 반환합니다.
func FromContext(ctx context.Context, component string) *Entry {
	return WithComponentAndFields(component, FieldsFromContext(ctx)).WithContext(ctx)
}
