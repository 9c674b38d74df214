package query

// Insights query strings per monitored service type. Each sorts by descending
// timestamp and caps matches at 10000; the match terms differ by what the
// service logs when it breaks.

const lambdaQuery = `
fields @timestamp, @message, @requestId, @logStream
| sort @timestamp desc
| limit 10000
| filter @message like /ERROR/
  or @message like /Error/
  or @message like /Exception/
  or @message like /exception/
  or @message like /Traceback/
  or @message like /failed/i
  or @message like /FAILED/
  or @level = "ERROR"
  or @level = "FATAL"
`

const ecsQuery = `
fields @timestamp, @message, @logStream
| sort @timestamp desc
| limit 10000
| filter @message like /An unexpected error/
  or @message like /unhandled exception/i
  or @message like /ERROR/
  or @message like /Error/
  or @message like /FATAL/
  or @message like /Fatal/
  or @message like /failed/i
  or @message like /exception/i
`

const rdsQuery = `
fields @timestamp, @message
| sort @timestamp desc
| limit 10000
| filter @message like /ERROR:/
  or @message like /FATAL:/
  or @message like /PANIC:/
  or @message like /deadlock/i
  or @message like /connection reset/i
  or @message like /could not connect/i
  or @message like /syntax error/i
  or @message like /duplicate key/i
  or @message like /constraint violation/i
`

// TemplateFor returns the query string for the given service type. Unknown
// types fall back to the lambda query.
func TemplateFor(serviceType string) string {
	switch serviceType {
	case "ecs":
		return ecsQuery
	case "rds":
		return rdsQuery
	default:
		return lambdaQuery
	}
}
