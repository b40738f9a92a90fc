package constants

import "fmt"

// User-facing messages are authored in Arabic; the console UI shows them
// verbatim. Technical/log messages stay in English (see errors.go).

const (
	MsgNoValidRows       = "لا توجد بيانات صالحة للاستيراد."
	MsgRequiredFieldFmt  = "الحقل المطلوب '%s' فارغ."
	MsgNotANumberFmt     = "القيمة '%s' ليست رقماً صالحاً."
	MsgNegativeAmountFmt = "القيمة '%s' لا يمكن أن تكون سالبة."
	MsgNotAnIntegerFmt   = "القيمة '%s' ليست رقماً صحيحاً."
	MsgTooFewInstallFmt  = "عدد الدفعات '%s' أقل من الحد الأدنى."
	MsgInvalidDateFmt    = "التاريخ '%s' غير صالح."
	MsgCustomerRefFmt    = "لم يتم العثور على عميل بالرقم '%s'."
	MsgTransactionRefFmt = "لم يتم العثور على معاملة بالرقم '%s'."
	MsgDatabaseErrorFmt  = "خطأ في قاعدة البيانات: %s"
	MsgPaymentFailedFmt  = "فشل تسجيل الدفعة: %s"
)

// Arabic display names for the importable tables.
var TableDisplayNames = map[string]string{
	"customers":    "العملاء",
	"transactions": "المعاملات",
	"payments":     "المدفوعات",
}

// MsgImportSummary reports imported vs skipped counts for one import run.
func MsgImportSummary(imported, skipped int) string {
	if skipped > 0 {
		return fmt.Sprintf("تم استيراد %d سجلات. تم تخطي %d صفوف بسبب أخطاء.", imported, skipped)
	}
	return fmt.Sprintf("تم استيراد %d سجلات بنجاح.", imported)
}

// MsgPurged describes the outcome of a bulk purge.
func MsgPurged(table string, olderThanHours int) string {
	name := TableDisplayNames[table]
	if name == "" {
		name = table
	}
	if olderThanHours > 0 {
		return fmt.Sprintf("تم حذف البيانات المستوردة في آخر %d ساعة من %s", olderThanHours, name)
	}
	return fmt.Sprintf("تم حذف جميع البيانات من %s", name)
}
